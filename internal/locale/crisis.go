package locale

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// CrisisResource is a hotline rendered verbatim for a language.
type CrisisResource struct {
	Language     string `yaml:"-" json:"language"`
	Region       string `yaml:"region" json:"region"`
	Organization string `yaml:"organization" json:"organization"`
	Phone        string `yaml:"phone" json:"phone"`
	Text         string `yaml:"text,omitempty" json:"text,omitempty"`
}

// CrisisTable maps languages to crisis resources.
type CrisisTable struct {
	resources map[string]CrisisResource
}

// DefaultCrisisTable loads the crisis resources shipped with the binary.
func DefaultCrisisTable() (*CrisisTable, error) {
	return LoadCrisisTable(embedded, "data/crisis.yaml")
}

// LoadCrisisTable parses a YAML mapping of language to resource.
func LoadCrisisTable(fsys fs.FS, name string) (*CrisisTable, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	resources := make(map[string]CrisisResource)
	if err := yaml.Unmarshal(raw, &resources); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTable, name, err)
	}
	if _, ok := resources[DefaultLanguage]; !ok {
		return nil, ErrMissingDefault
	}
	for lang, resource := range resources {
		resource.Language = lang
		resources[lang] = resource
	}
	return &CrisisTable{resources: resources}, nil
}

// Lookup returns the resource for lang, falling back to English.
func (t *CrisisTable) Lookup(lang string) CrisisResource {
	if resource, ok := t.resources[Normalize(lang)]; ok {
		return resource
	}
	return t.resources[DefaultLanguage]
}
