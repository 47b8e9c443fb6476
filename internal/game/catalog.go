// Package game holds the pure rules of the draw-and-guess minigame: the word
// catalog, subject masking, guess matching, scoring and drawer rotation. It has
// no concurrency of its own; the session actor calls into it.
package game

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed words.yaml
var defaultCatalog []byte

var ErrEmptyCatalog = errors.New("word catalog has no usable themes")

type catalogFile struct {
	Themes []struct {
		Name     string   `yaml:"name"`
		Subjects []string `yaml:"subjects"`
	} `yaml:"themes"`
}

// Catalog maps themes to the subjects a drawer may pick from.
type Catalog struct {
	order    []string
	subjects map[string][]string
}

// LoadCatalog reads a catalog file, or the built-in one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{subjects: make(map[string][]string)}
	for _, t := range f.Themes {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		var subjects []string
		for _, s := range t.Subjects {
			if s = strings.TrimSpace(s); s != "" {
				subjects = append(subjects, s)
			}
		}
		if len(subjects) == 0 {
			continue
		}
		if _, dup := c.subjects[name]; !dup {
			c.order = append(c.order, name)
		}
		c.subjects[name] = append(c.subjects[name], subjects...)
	}
	if len(c.order) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

func (c *Catalog) Themes() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Catalog) Subjects(theme string) []string {
	s := c.subjects[theme]
	out := make([]string, len(s))
	copy(out, s)
	return out
}
