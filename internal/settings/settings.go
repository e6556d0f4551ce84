// Package settings holds the dashboard appearance preferences.
package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/lantabur/internal/domain/models"
)

var (
	ErrInvalidTheme  = errors.New("invalid theme")
	ErrInvalidAccent = errors.New("invalid accent")
)

// Theme is a background theme.
type Theme string

const (
	ThemeLight      Theme = "light"
	ThemeDark       Theme = "dark"
	ThemeMaterial   Theme = "material"
	ThemeTokioNight Theme = "tokio-night"
	ThemeMonokai    Theme = "monokai"
	ThemeDracula    Theme = "dracula"
)

// Themes lists every theme with its background color, in menu order.
var Themes = []ThemeInfo{
	{ID: ThemeLight, Label: "Light", Background: "#f8fafc"},
	{ID: ThemeDark, Label: "Dark", Background: "#0f172a"},
	{ID: ThemeMaterial, Label: "Material", Background: "#eceff1"},
	{ID: ThemeTokioNight, Label: "Tokio Night", Background: "#1a1b26"},
	{ID: ThemeMonokai, Label: "Monokai", Background: "#272822"},
	{ID: ThemeDracula, Label: "Dracula", Background: "#282a36"},
}

// ThemeInfo describes a theme for the settings page.
type ThemeInfo struct {
	ID         Theme  `json:"id"`
	Label      string `json:"label"`
	Background string `json:"background"`
}

// Accent is a highlight color family.
type Accent string

const (
	AccentIndigo  Accent = "indigo"
	AccentBlue    Accent = "blue"
	AccentEmerald Accent = "emerald"
	AccentRose    Accent = "rose"
	AccentAmber   Accent = "amber"
	AccentViolet  Accent = "violet"
	AccentCyan    Accent = "cyan"
)

// Palette is the pair of CSS colors applied for an accent.
type Palette struct {
	Main  string `json:"main"`
	Hover string `json:"hover"`
}

var palettes = map[Accent]Palette{
	AccentIndigo:  {Main: "#6366f1", Hover: "#4f46e5"},
	AccentBlue:    {Main: "#3b82f6", Hover: "#2563eb"},
	AccentEmerald: {Main: "#10b981", Hover: "#059669"},
	AccentRose:    {Main: "#f43f5e", Hover: "#e11d48"},
	AccentAmber:   {Main: "#f59e0b", Hover: "#d97706"},
	AccentViolet:  {Main: "#8b5cf6", Hover: "#7c3aed"},
	AccentCyan:    {Main: "#06b6d4", Hover: "#0891b2"},
}

// Accents lists the accents in menu order.
var Accents = []Accent{AccentIndigo, AccentBlue, AccentEmerald, AccentRose, AccentAmber, AccentViolet, AccentCyan}

// Palette returns the colors of a, falling back to indigo.
func (a Accent) Palette() Palette {
	if p, ok := palettes[a]; ok {
		return p
	}
	return palettes[AccentIndigo]
}

// Settings is the persisted appearance of the dashboard.
type Settings struct {
	Theme     Theme     `bson:"theme" json:"theme"`
	Accent    Accent    `bson:"accent" json:"accent"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Defaults is what a fresh installation shows.
func Defaults() Settings {
	return Settings{Theme: ThemeLight, Accent: AccentIndigo}
}

// Validate checks both vocabularies.
func (s Settings) Validate() error {
	valid := false
	for _, t := range Themes {
		if t.ID == s.Theme {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, s.Theme)
	}
	if _, ok := palettes[s.Accent]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidAccent, s.Accent)
	}
	return nil
}

// View is the settings payload returned to the dashboard.
type View struct {
	Settings
	Palette Palette     `json:"palette"`
	Themes  []ThemeInfo `json:"themes"`
	Accents []Accent    `json:"accents"`
}

// Store persists a single Settings document. Load returns
// models.ErrNotFound when nothing has been saved yet.
type Store interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// Service reads and writes settings through a Store.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a settings service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Get returns the stored settings, or the defaults.
func (s *Service) Get(ctx context.Context) (View, error) {
	current, err := s.store.LoadSettings(ctx)
	switch {
	case errors.Is(err, models.ErrNotFound):
		current = Defaults()
	case err != nil:
		return View{}, fmt.Errorf("load settings: %w", err)
	case current.Validate() != nil:
		s.logger.Warn("stored settings are invalid, using defaults",
			zap.String("theme", string(current.Theme)),
			zap.String("accent", string(current.Accent)))
		current = Defaults()
	}
	return view(current), nil
}

// Update validates and stores next.
func (s *Service) Update(ctx context.Context, next Settings) (View, error) {
	if err := next.Validate(); err != nil {
		return View{}, err
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.store.SaveSettings(ctx, next); err != nil {
		return View{}, fmt.Errorf("save settings: %w", err)
	}
	s.logger.Info("settings updated", zap.String("theme", string(next.Theme)), zap.String("accent", string(next.Accent)))
	return view(next), nil
}

func view(s Settings) View {
	return View{Settings: s, Palette: s.Accent.Palette(), Themes: Themes, Accents: Accents}
}
