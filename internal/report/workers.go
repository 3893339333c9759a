package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// artifact is one renderable file in a bundle.
type artifact struct {
	name   string
	render func(ctx context.Context) (string, error)
}

// writeArtifacts renders and writes artifacts concurrently through a
// bounded worker pool. The first error cancels outstanding work.
func writeArtifacts(ctx context.Context, dir string, artifacts []artifact, workers int, log *zap.Logger) error {
	if len(artifacts) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(artifacts) {
		workers = len(artifacts)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan artifact)

	var wg sync.WaitGroup
	var firstErr error
	var errMu sync.Mutex

	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		errMu.Unlock()
	}

	worker := func() {
		defer wg.Done()
		for art := range jobs {
			if ctx.Err() != nil {
				return
			}
			doc, err := art.render(ctx)
			if err != nil {
				fail(fmt.Errorf("render %s: %w", art.name, err))
				return
			}
			if err := os.WriteFile(filepath.Join(dir, art.name), []byte(doc), 0o644); err != nil {
				fail(fmt.Errorf("write %s: %w", art.name, err))
				return
			}
			log.Info("wrote chart",
				zap.String("file", art.name),
				zap.Int("bytes", len(doc)),
			)
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

	go func() {
		defer close(jobs)
		for _, art := range artifacts {
			select {
			case <-ctx.Done():
				return
			case jobs <- art:
			}
		}
	}()

	wg.Wait()

	errMu.Lock()
	defer errMu.Unlock()
	return firstErr
}
