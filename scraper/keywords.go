package scraper

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed job_keywords.yaml
var defaultKeywords []byte

// Keywords configures section extraction and company detection
type Keywords struct {
	Sections  map[string][]string `yaml:"sections"`
	Companies []string            `yaml:"companies"`
}

// DefaultKeywords returns the built-in keyword set
func DefaultKeywords() Keywords {
	kw, err := ParseKeywords(defaultKeywords)
	if err != nil {
		panic(fmt.Sprintf("embedded job keywords: %v", err))
	}
	return kw
}

// LoadKeywords reads a keyword file, or the built-in set when path is empty
func LoadKeywords(path string) (Keywords, error) {
	if path == "" {
		return DefaultKeywords(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("failed to read keywords file: %w", err)
	}
	return ParseKeywords(data)
}

// ParseKeywords decodes a YAML keyword document
func ParseKeywords(data []byte) (Keywords, error) {
	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return Keywords{}, fmt.Errorf("failed to parse keywords: %w", err)
	}
	if kw.Sections == nil {
		kw.Sections = map[string][]string{}
	}
	return kw, nil
}

// SectionKeys returns the section keys in a stable order
func (k Keywords) SectionKeys() []string {
	keys := make([]string, 0, len(k.Sections))
	for key := range k.Sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
