package tui

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lkettell/nestegg/internal/storage"
	"github.com/lkettell/nestegg/internal/wealth"
)

// Preference keys in the app config table. Values are plain strings so
// they stay readable next to the importer's own settings.
const (
	prefScreen     = "ui.screen"
	prefPreset     = "ui.preset"
	prefMetric     = "ui.metric"
	prefCash       = "ui.include_cash"
	prefRealEstate = "ui.include_real_estate"
	prefInvestment = "ui.include_investment"
	prefLiability  = "ui.include_liability"
)

type prefs struct {
	screen  screenMode
	preset  wealth.Preset
	metric  wealth.Metric
	filters wealth.Filters
}

func defaultPrefs() prefs {
	return prefs{
		screen:  screenCurve,
		preset:  wealth.DefaultPreset,
		metric:  wealth.MetricNet,
		filters: wealth.DefaultFilters(),
	}
}

// prefsFromMap overlays stored values onto the defaults. Unknown or
// malformed values keep the default instead of failing the load.
func prefsFromMap(values map[string]string) prefs {
	p := defaultPrefs()
	if s, ok := screenFromName(values[prefScreen]); ok {
		p.screen = s
	}
	if preset, err := wealth.ParsePreset(values[prefPreset]); err == nil && preset != wealth.PresetCustom {
		p.preset = preset
	}
	if metric, err := wealth.ParseMetric(values[prefMetric]); err == nil {
		p.metric = metric
	}
	if v, err := wealth.ParseBool(values[prefCash], p.filters.Cash); err == nil {
		p.filters.Cash = v
	}
	if v, err := wealth.ParseBool(values[prefRealEstate], p.filters.RealEstate); err == nil {
		p.filters.RealEstate = v
	}
	if v, err := wealth.ParseBool(values[prefInvestment], p.filters.Investment); err == nil {
		p.filters.Investment = v
	}
	if v, err := wealth.ParseBool(values[prefLiability], p.filters.Liability); err == nil {
		p.filters.Liability = v
	}
	if p.filters.Validate() != nil {
		p.filters = wealth.DefaultFilters()
	}
	return p
}

func (p prefs) toMap() map[string]string {
	return map[string]string{
		prefScreen:     p.screen.name(),
		prefPreset:     string(p.preset),
		prefMetric:     string(p.metric),
		prefCash:       strconv.FormatBool(p.filters.Cash),
		prefRealEstate: strconv.FormatBool(p.filters.RealEstate),
		prefInvestment: strconv.FormatBool(p.filters.Investment),
		prefLiability:  strconv.FormatBool(p.filters.Liability),
	}
}

func (m model) loadPrefsCmd() tea.Cmd {
	db := m.db
	return func() tea.Msg {
		if db == nil {
			return prefsLoadedMsg{prefs: defaultPrefs()}
		}
		values, err := storage.NewAppConfigRepo(db).All(context.Background())
		if err != nil {
			return prefsLoadedMsg{prefs: defaultPrefs(), err: err}
		}
		return prefsLoadedMsg{prefs: prefsFromMap(values)}
	}
}

func (m model) savePrefsCmd() tea.Cmd {
	if m.db == nil {
		return nil
	}
	db := m.db
	values := prefs{
		screen:  m.screen,
		preset:  m.preset,
		metric:  m.metric,
		filters: m.filters,
	}.toMap()
	return func() tea.Msg {
		err := storage.NewAppConfigRepo(db).UpsertMany(context.Background(), values)
		return savePrefsMsg{err: err}
	}
}
