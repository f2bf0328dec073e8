// Package locale resolves user-facing strings and crisis resources per language.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is consulted when a key is missing in the active language.
const DefaultLanguage = "en"

// SupportedLanguages lists the languages with a translation table.
var SupportedLanguages = []string{"en", "es", "fr", "de", "pt", "zh", "ja", "it", "ko", "ar", "hi", "ht"}

//go:embed data
var embedded embed.FS

var (
	// ErrMissingDefault indicates a table source without English strings.
	ErrMissingDefault = errors.New("locale: default language table missing")
	// ErrInvalidTable indicates a translation or crisis file that cannot be parsed.
	ErrInvalidTable = errors.New("locale: invalid table")
)

// Table maps languages to flattened dotted keys.
type Table struct {
	entries map[string]map[string]string
}

// DefaultTable loads the translations shipped with the binary.
func DefaultTable() (*Table, error) {
	sub, err := fs.Sub(embedded, "data/translations")
	if err != nil {
		return nil, err
	}
	return LoadTable(sub)
}

// LoadTable reads every <lang>.yaml file at the root of fsys.
func LoadTable(fsys fs.FS) (*Table, error) {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	table := &Table{entries: make(map[string]map[string]string, len(files))}
	for _, file := range files {
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTable, file, err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		table.entries[strings.TrimSuffix(path.Base(file), ".yaml")] = flat
	}
	if _, ok := table.entries[DefaultLanguage]; !ok {
		return nil, ErrMissingDefault
	}
	return table, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for key, value := range tree {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		switch typed := value.(type) {
		case map[string]any:
			flatten(name, typed, out)
		case nil:
		default:
			out[name] = fmt.Sprint(typed)
		}
	}
}

// Languages returns the languages present in the table, sorted.
func (t *Table) Languages() []string {
	languages := make([]string, 0, len(t.entries))
	for lang := range t.entries {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}

// Lookup resolves key in lang, then in English, then returns the key itself.
func (t *Table) Lookup(lang, key string) string {
	if value, ok := t.entries[Normalize(lang)][key]; ok {
		return value
	}
	if value, ok := t.entries[DefaultLanguage][key]; ok {
		return value
	}
	return key
}

// Has reports whether lang defines key without falling back.
func (t *Table) Has(lang, key string) bool {
	_, ok := t.entries[Normalize(lang)][key]
	return ok
}

// Normalize reduces a BCP 47 tag such as "es-MX" to its base language.
// Unknown or malformed tags normalize to English.
func Normalize(raw string) string {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return DefaultLanguage
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return DefaultLanguage
	}
	return base.String()
}

// Supported reports whether lang normalizes to a language with a table.
func Supported(lang string) bool {
	normalized := Normalize(lang)
	for _, candidate := range SupportedLanguages {
		if candidate == normalized {
			return true
		}
	}
	return false
}
