// Package i18n resolves user-facing labels by key. Tables are embedded YAML
// files, one per language, with English as the fallback.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when no language is configured or a key is missing.
const DefaultLanguage = "en"

//go:embed locales/*.yml
var localeFS embed.FS

// Translator resolves a label key to display text.
type Translator interface {
	T(key string) string
}

// Table is a Translator backed by a language table and an English fallback.
type Table struct {
	lang     string
	entries  map[string]string
	fallback map[string]string
}

// Load returns the table for lang. Unknown languages are an error.
func Load(lang string) (*Table, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	lang = strings.ToLower(lang)

	entries, err := readLocale(lang)
	if err != nil {
		return nil, err
	}

	fallback := entries
	if lang != DefaultLanguage {
		fallback, err = readLocale(DefaultLanguage)
		if err != nil {
			return nil, err
		}
	}

	return &Table{lang: lang, entries: entries, fallback: fallback}, nil
}

// MustLoad is Load for languages known to be embedded.
func MustLoad(lang string) *Table {
	t, err := Load(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// Languages lists the embedded language codes.
func Languages() []string {
	files, err := localeFS.ReadDir("locales")
	if err != nil {
		return []string{DefaultLanguage}
	}
	var langs []string
	for _, f := range files {
		langs = append(langs, strings.TrimSuffix(f.Name(), ".yml"))
	}
	sort.Strings(langs)
	return langs
}

// Language returns the table's language code.
func (t *Table) Language() string {
	return t.lang
}

// T returns the translation for key, the English text if the language lacks
// it, or the key itself as a last resort.
func (t *Table) T(key string) string {
	if v, ok := t.entries[key]; ok && v != "" {
		return v
	}
	if v, ok := t.fallback[key]; ok && v != "" {
		return v
	}
	return key
}

// Or returns tr.T(key), or fallback when tr is nil or has no entry for key.
func Or(tr Translator, key, fallback string) string {
	if tr == nil {
		return fallback
	}
	if v := tr.T(key); v != "" && v != key {
		return v
	}
	return fallback
}

func readLocale(lang string) (map[string]string, error) {
	data, err := localeFS.ReadFile("locales/" + lang + ".yml")
	if err != nil {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	entries := map[string]string{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s locale: %w", lang, err)
	}
	return entries, nil
}
