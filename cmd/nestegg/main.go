package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/lkettell/nestegg/internal/auth"
	"github.com/lkettell/nestegg/internal/config"
	"github.com/lkettell/nestegg/internal/ledger"
	"github.com/lkettell/nestegg/internal/logging"
	"github.com/lkettell/nestegg/internal/report"
	"github.com/lkettell/nestegg/internal/server"
	"github.com/lkettell/nestegg/internal/storage"
	"github.com/lkettell/nestegg/internal/tui"
	"github.com/lkettell/nestegg/internal/wealth"
)

// version is stamped by the release build.
var version = "dev"

func main() {
	_ = godotenv.Load()

	cmd := "tui"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if cmd == "version" {
		fmt.Println("nestegg " + version)
		return
	}
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cmd, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s error: %v\n", cmd, err)
		os.Exit(1)
	}
}

func run(cmd string, cfg config.Config) error {
	switch cmd {
	case "tui":
		return runTUI(cfg)
	case "serve":
		return runServe(cfg)
	case "import":
		return runImport(cfg)
	case "demo":
		return runDemo(cfg)
	case "export":
		return runExport(cfg)
	case "wipe":
		return runWipe()
	case "key":
		if len(os.Args) == 3 && os.Args[2] == "set" {
			return runKeySet()
		}
		return errors.New("usage: nestegg key set")
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runTUI(cfg config.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the dashboard needs a terminal; try 'nestegg serve' or 'nestegg export'")
	}

	log, closeLog, err := logging.Setup(logging.ModeFile, cfg.LogLevel, cfg.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	db, dbCfg, err := storage.Open(context.Background())
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database open", zap.String("path", dbCfg.Path))

	program := tea.NewProgram(
		tui.New(tui.Deps{
			DB:          db,
			Analytics:   wealth.NewService(db),
			Log:         log,
			Options:     cfg.ChartOptions(),
			ExportDir:   cfg.ExportDir,
			ExportWidth: cfg.ExportWidth,
		}),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err = program.Run()
	return err
}

func runServe(cfg config.Config) error {
	log, closeLog, err := logging.Setup(logging.ModeConsole, cfg.LogLevel, "")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dbCfg, err := storage.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database open", zap.String("path", dbCfg.Path))

	return server.New(wealth.NewService(db), log, cfg.ChartOptions()).Run(ctx, cfg.Addr)
}

func runImport(cfg config.Config) error {
	if len(os.Args) < 3 {
		return errors.New("usage: nestegg import <csv>")
	}
	path := os.Args[2]

	log, closeLog, err := logging.Setup(logging.ModeConsole, cfg.LogLevel, "")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	db, _, err := storage.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := ledger.NewImporter(db, log).ImportCSV(ctx, path)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d %s rows from %s (batch %s)\n",
		result.Rows, result.Kind, result.SourceFile, result.BatchID)
	return nil
}

func runDemo(cfg config.Config) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	months := fs.Int("months", 36, "months of history to generate")
	seed := fs.Int64("seed", 42, "random walk seed")
	if err := fs.Parse(os.Args[2:]); err != nil {
		return err
	}

	log, closeLog, err := logging.Setup(logging.ModeConsole, cfg.LogLevel, "")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	db, _, err := storage.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	summary, err := ledger.NewImporter(db, log).SeedDemo(ctx, *seed, *months, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d months of demo history: %d valuations, %d investment snapshots (batch %s)\n",
		summary.Months, summary.Valuations, summary.Investments, summary.BatchID)
	return nil
}

func runExport(cfg config.Config) error {
	dir := cfg.ExportDir
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	log, closeLog, err := logging.Setup(logging.ModeConsole, cfg.LogLevel, "")
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()
	db, _, err := storage.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	bundle, err := report.WriteBundle(ctx, report.Deps{
		Analytics: wealth.NewService(db),
		Log:       log,
		Options:   cfg.ChartOptions(),
	}, dir, cfg.ExportWidth)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d files to %s\n", len(bundle.Files), bundle.Dir)
	return nil
}

func runWipe() error {
	fmt.Print("This deletes the local encrypted ledger database. Continue? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
	default:
		fmt.Println("aborted")
		return nil
	}

	cfg, err := storage.Wipe()
	if err != nil {
		return err
	}
	fmt.Printf("removed database files at %s\n", cfg.Path)
	return nil
}

func runKeySet() error {
	fmt.Print("Enter new database key: ")
	key, err := readSecret()
	if err != nil {
		return err
	}
	fmt.Println()

	if strings.TrimSpace(key) == "" {
		return errors.New("empty key")
	}

	fmt.Print("Confirm key: ")
	confirm, err := readSecret()
	if err != nil {
		return err
	}
	fmt.Println()

	if key != confirm {
		return errors.New("keys do not match")
	}

	if err := auth.SaveDBKey(key); err != nil {
		return err
	}

	// Do not print key material.
	fmt.Println("Key saved to your system credential store.")
	fmt.Println("Data encrypted under a previous key is unreadable now; run 'nestegg wipe' to start clean.")
	return nil
}

func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		value, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(value), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		if len(line) == 0 {
			return "", err
		}
	}
	return strings.TrimSpace(line), nil
}

func printUsage() {
	fmt.Print(`nestegg tracks household net worth in an encrypted local ledger.

usage: nestegg [command]

  tui               interactive dashboard (default)
  serve             HTTP chart API
  import <csv>      load a valuations or investments CSV
  demo [--months N] seed a deterministic demo history
  export [dir]      write the SVG report bundle
  wipe              delete the local database (asks first)
  key set           store the database encryption key
  version           print the build version
`)
}
