package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTheme_Next(t *testing.T) {
	assert.Equal(t, ThemeDark, ThemeLight.Next())
	assert.Equal(t, ThemeNeon, ThemeDark.Next())
	assert.Equal(t, ThemeGlass, ThemeNeon.Next())
	assert.Equal(t, ThemeLight, ThemeGlass.Next(), "cycle wraps back to light")

	// Four steps from any theme return to the starting point
	theme := ThemeDark
	for i := 0; i < 4; i++ {
		theme = theme.Next()
	}
	assert.Equal(t, ThemeDark, theme)
}

func TestTheme_NextUnknownRestartsCycle(t *testing.T) {
	assert.Equal(t, ThemeLight, Theme("sepia").Next())
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, ThemeLight, settings.Theme)
	assert.Equal(t, "ru", settings.Language)
	assert.True(t, settings.Notifications)
	assert.True(t, settings.Sounds)
}
