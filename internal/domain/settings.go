package domain

// Theme is a visual theme name. Themes form a fixed cycle that the
// theme control steps through.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeNeon  Theme = "neon"
	ThemeGlass Theme = "glass"
)

// themeCycle is the order the theme control steps through.
var themeCycle = []Theme{ThemeLight, ThemeDark, ThemeNeon, ThemeGlass}

// Next returns the theme that follows this one in the cycle.
// Unknown themes restart the cycle at light.
func (t Theme) Next() Theme {
	for i, theme := range themeCycle {
		if theme == t {
			return themeCycle[(i+1)%len(themeCycle)]
		}
	}
	return ThemeLight
}

// Valid checks if the theme is one we ship.
func (t Theme) Valid() bool {
	for _, theme := range themeCycle {
		if theme == t {
			return true
		}
	}
	return false
}

// Settings is the user-preference blob persisted in the session cache
// and autosaved on a timer.
type Settings struct {
	Theme         Theme  `json:"theme"`
	Language      string `json:"language"` // BCP 47 tag
	Notifications bool   `json:"notifications"`
	Sounds        bool   `json:"sounds"`
}

// DefaultSettings returns the settings applied before any are saved.
func DefaultSettings() Settings {
	return Settings{
		Theme:         ThemeLight,
		Language:      "ru",
		Notifications: true,
		Sounds:        true,
	}
}
