// Package wealth computes net-worth analytics over the stored
// snapshot history: resolved date windows, carry-forward wealth
// curves, and point-in-time account overviews. All money stays in
// integer cents until a chart adapter converts it.
package wealth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lkettell/nestegg/internal/ledger"
)

// Preset names a supported curve window.
type Preset string

const (
	PresetYTD            Preset = "ytd"
	Preset1Y             Preset = "1y"
	Preset3Y             Preset = "3y"
	PresetSinceInception Preset = "since_inception"
	PresetCustom         Preset = "custom"
)

// DefaultPreset is used when a query names no preset.
const DefaultPreset = Preset1Y

// Presets lists the presets that need no explicit dates, in cycling
// order.
func Presets() []Preset {
	return []Preset{PresetYTD, Preset1Y, Preset3Y, PresetSinceInception}
}

// ErrNoData marks queries against a store with no snapshots.
var ErrNoData = errors.New("no snapshots recorded yet")

// ErrInvalidQuery marks caller input that cannot be satisfied:
// malformed dates, unknown presets or metrics, or windows outside the
// stored history.
var ErrInvalidQuery = errors.New("invalid query")

const isoDate = "2006-01-02"

// ParsePreset validates raw, defaulting empty input to DefaultPreset.
func ParsePreset(raw string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return DefaultPreset, nil
	}
	switch p {
	case PresetYTD, Preset1Y, Preset3Y, PresetSinceInception, PresetCustom:
		return p, nil
	}
	return "", fmt.Errorf("%w: unsupported preset %q", ErrInvalidQuery, raw)
}

// ParseBool reads a query-style boolean. Empty input yields def.
func ParseBool(raw string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return def, nil
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("%w: boolean parameter %q", ErrInvalidQuery, raw)
}

// Filters selects which asset classes feed gross and net totals. The
// zero value selects nothing; DefaultFilters selects everything.
type Filters struct {
	Cash       bool `json:"include_cash"`
	RealEstate bool `json:"include_real_estate"`
	Investment bool `json:"include_investment"`
	Liability  bool `json:"include_liability"`
}

func DefaultFilters() Filters {
	return Filters{Cash: true, RealEstate: true, Investment: true, Liability: true}
}

// Validate rejects an empty selection.
func (f Filters) Validate() error {
	if !f.Cash && !f.RealEstate && !f.Investment && !f.Liability {
		return fmt.Errorf("%w: at least one asset class must be selected", ErrInvalidQuery)
	}
	return nil
}

// Enabled reports whether class is selected.
func (f Filters) Enabled(class ledger.AssetClass) bool {
	switch class {
	case ledger.ClassCash:
		return f.Cash
	case ledger.ClassRealEstate:
		return f.RealEstate
	case ledger.ClassInvestment:
		return f.Investment
	case ledger.ClassLiability:
		return f.Liability
	}
	return false
}

// Window is a resolved query range: what the caller asked for and
// what the stored history can actually cover. All dates are ISO
// strings.
type Window struct {
	Preset        Preset
	RequestedFrom string
	RequestedTo   string
	EffectiveFrom string
	EffectiveTo   string
	Latest        string
}

// resolveWindow clamps a preset or custom range to the snapshot
// bounds. earliest and latest come from the store and must be valid
// ISO dates with earliest <= latest.
func resolveWindow(preset Preset, fromRaw, toRaw, earliest, latest string) (Window, error) {
	earliestD, err := parseISO(earliest, "earliest snapshot")
	if err != nil {
		return Window{}, err
	}
	latestD, err := parseISO(latest, "latest snapshot")
	if err != nil {
		return Window{}, err
	}
	if latestD.Before(earliestD) {
		return Window{}, fmt.Errorf("%w: snapshot bounds are inverted (%s after %s)", ErrInvalidQuery, earliest, latest)
	}

	requestedTo := latestD
	if strings.TrimSpace(toRaw) != "" {
		requestedTo, err = parseISO(toRaw, "to")
		if err != nil {
			return Window{}, err
		}
	}
	effectiveTo := requestedTo
	if latestD.Before(effectiveTo) {
		effectiveTo = latestD
	}
	if effectiveTo.Before(earliestD) {
		return Window{}, fmt.Errorf("%w: requested end %s precedes the earliest snapshot %s",
			ErrInvalidQuery, fmtISO(effectiveTo), earliest)
	}

	var requestedFrom time.Time
	switch preset {
	case PresetCustom:
		requestedFrom, err = parseISO(fromRaw, "from")
		if err != nil {
			return Window{}, err
		}
	case PresetYTD:
		requestedFrom = time.Date(effectiveTo.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case Preset1Y:
		requestedFrom = effectiveTo.AddDate(0, 0, -365)
	case Preset3Y:
		requestedFrom = effectiveTo.AddDate(0, 0, -3*365)
	case PresetSinceInception:
		requestedFrom = earliestD
	default:
		return Window{}, fmt.Errorf("%w: unsupported preset %q", ErrInvalidQuery, preset)
	}

	effectiveFrom := requestedFrom
	if effectiveFrom.Before(earliestD) {
		effectiveFrom = earliestD
	}
	if effectiveFrom.After(effectiveTo) {
		return Window{}, fmt.Errorf("%w: window start %s is after its end %s",
			ErrInvalidQuery, fmtISO(requestedFrom), fmtISO(effectiveTo))
	}

	return Window{
		Preset:        preset,
		RequestedFrom: fmtISO(requestedFrom),
		RequestedTo:   fmtISO(requestedTo),
		EffectiveFrom: fmtISO(effectiveFrom),
		EffectiveTo:   fmtISO(effectiveTo),
		Latest:        fmtISO(latestD),
	}, nil
}

func parseISO(raw, field string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: missing %s date", ErrInvalidQuery, field)
	}
	t, err := time.Parse(isoDate, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", ErrInvalidQuery, field, raw)
	}
	return t, nil
}

func fmtISO(t time.Time) string { return t.Format(isoDate) }
