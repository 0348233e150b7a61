package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	assert.Equal(t, "pt", match("pt-BR"))
	assert.Equal(t, "ru", match("ru_RU"))
	assert.Equal(t, "en", match("de-DE"))
}

func TestTranslate(t *testing.T) {
	prev := lang
	t.Cleanup(func() { lang = prev })

	lang = "es"
	assert.Equal(t, "Guardar", T("Save"))
	assert.Equal(t, "Untranslated", T("Untranslated"))

	lang = "en"
	assert.Equal(t, "Save", T("Save"))
}
