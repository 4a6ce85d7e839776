// Package data holds static presentation tables loaded from YAML.
package data

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/spaceshooter/internal/object"
)

//go:embed variants.yaml
var defaultVariants []byte

// VariantStyle describes how one enemy variant is drawn.
type VariantStyle struct {
	Name  string `yaml:"name"`
	Glyph string `yaml:"glyph"` // terminal fill character
	ANSI  int    `yaml:"ansi"`  // 256-colour palette index
	Color string `yaml:"color"` // "#rrggbb" for the desktop renderer
}

// RGBA parses Color, falling back to white.
func (s VariantStyle) RGBA() color.RGBA {
	hex := strings.TrimPrefix(s.Color, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

type variantFile struct {
	Variants []VariantStyle `yaml:"variants"`
}

// VariantTable maps every enemy variant to its style.
type VariantTable struct {
	styles map[object.Variant]VariantStyle
}

// DefaultVariants returns the embedded table.
func DefaultVariants() *VariantTable {
	t, err := parseVariants(defaultVariants)
	if err != nil {
		panic(fmt.Sprintf("embedded variants.yaml: %v", err))
	}
	return t
}

// LoadVariants loads a variant table from a YAML file.
func LoadVariants(path string) (*VariantTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variants: %w", err)
	}
	return parseVariants(data)
}

func parseVariants(data []byte) (*VariantTable, error) {
	var f variantFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}

	byName := make(map[string]object.Variant, len(object.Variants))
	for _, v := range object.Variants {
		byName[v.String()] = v
	}

	t := &VariantTable{styles: make(map[object.Variant]VariantStyle, len(f.Variants))}
	for _, s := range f.Variants {
		v, ok := byName[s.Name]
		if !ok {
			return nil, fmt.Errorf("unknown variant %q", s.Name)
		}
		if s.Glyph == "" {
			s.Glyph = "#"
		}
		t.styles[v] = s
	}
	for _, v := range object.Variants {
		if _, ok := t.styles[v]; !ok {
			return nil, fmt.Errorf("variant %q missing", v)
		}
	}
	return t, nil
}

// Get returns the style for a variant.
func (t *VariantTable) Get(v object.Variant) VariantStyle {
	return t.styles[v]
}

// Count returns the number of loaded styles.
func (t *VariantTable) Count() int {
	return len(t.styles)
}
