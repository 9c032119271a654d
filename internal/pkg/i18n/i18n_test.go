package i18n_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiki-echo/internal/pkg/i18n"
)

func TestLoadTranslations(t *testing.T) {
	err := i18n.LoadTranslations(filepath.Join("..", "..", "..", "locales"))
	require.NoError(t, err)

	assert.Equal(t, "Today", i18n.Translate("en", "echo-date-today"))
	assert.Equal(t, "Heute", i18n.Translate("de", "echo-date-today"))
	assert.Equal(t, "Kemarin", i18n.Translate("id", "echo-date-yesterday"))

	// Unknown locale falls back to English, unknown key to the key.
	assert.Equal(t, "Yesterday", i18n.Translate("fr", "echo-date-yesterday"))
	assert.Equal(t, "no-such-message", i18n.Translate("de", "no-such-message"))
	assert.False(t, i18n.Has("de", "no-such-message"))
}

func TestMessageParams(t *testing.T) {
	i18n.Register("xx", i18n.Translations{
		"greeting": "$1 greets $2",
		"many":     "$1|$10",
	})

	assert.Equal(t, "Alice greets Bob", i18n.Message("xx", "greeting", "Alice", "Bob"))
	assert.Equal(t, "a|j", i18n.Message("xx", "many", "a", "b", "c", "d", "e", "f", "g", "h", "i", "j"))
	assert.Equal(t, "$1 greets $2", i18n.Message("xx", "greeting"))
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "ltr", i18n.Dir("en"))
	assert.Equal(t, "left", i18n.AlignStart("de"))
	assert.Equal(t, "rtl", i18n.Dir("he"))
	assert.Equal(t, "right", i18n.AlignStart("ar-eg"))
}
