package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLocale = "en"
	catalogFile   = "echo.yaml"
)

type Translations map[string]string

var (
	locales = make(map[string]Translations)
	mu      sync.RWMutex
)

// rtlLocales are written right to left.
var rtlLocales = map[string]bool{
	"ar": true, "fa": true, "he": true, "ur": true, "yi": true, "ps": true,
}

// LoadTranslations reads <localePath>/<locale>/echo.yaml for every locale directory.
func LoadTranslations(localePath string) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := os.ReadDir(localePath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := filepath.Join(localePath, locale, catalogFile)

		data, err := os.ReadFile(filePath)
		if err != nil {
			continue
		}

		var catalog struct {
			Messages Translations `yaml:"MESSAGES"`
		}
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		locales[locale] = catalog.Messages
	}

	return nil
}

// Register installs messages for a locale, replacing any loaded ones.
func Register(locale string, messages Translations) {
	mu.Lock()
	defer mu.Unlock()
	locales[locale] = messages
}

func Translate(locale, key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != DefaultLocale {
		if trans, ok := locales[DefaultLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}

// Has reports whether key exists in locale or the default locale.
func Has(locale, key string) bool {
	mu.RLock()
	defer mu.RUnlock()

	if _, ok := locales[locale][key]; ok {
		return true
	}
	_, ok := locales[DefaultLocale][key]
	return ok
}

// Message translates key and substitutes $1, $2, ... with params.
func Message(locale, key string, params ...string) string {
	text := Translate(locale, key)
	// Replace from the highest index so $1 does not eat $10.
	for i := len(params); i >= 1; i-- {
		text = strings.ReplaceAll(text, "$"+strconv.Itoa(i), params[i-1])
	}
	return text
}

func Dir(locale string) string {
	if rtlLocales[baseLocale(locale)] {
		return "rtl"
	}
	return "ltr"
}

// AlignStart is the text-align value for the start edge of locale.
func AlignStart(locale string) string {
	if Dir(locale) == "rtl" {
		return "right"
	}
	return "left"
}

func baseLocale(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return locale[:i]
	}
	return locale
}
