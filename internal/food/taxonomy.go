// Package food tags free-form meal text against a taxonomy of named foods
// and aggregates how often each food category shows up.
package food

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed taxonomy.json
var defaultTaxonomy []byte

// Category keys used for intake statistics, in display order.
const (
	Fruit     = "fruit"
	Vegetable = "vegetable"
	Grain     = "grain"
	Protein   = "protein"
	Dairy     = "dairy"
	FatOther  = "fat_other"

	// other is a taxonomy category that is tagged but never counted.
	other = "other"
)

// Categories is the fixed label set intake suggestions are computed over.
var Categories = []string{Fruit, Vegetable, Grain, Protein, Dairy, FatOther}

// CategoryLabels maps category keys to human labels.
var CategoryLabels = map[string]string{
	Fruit:     "Fruit",
	Vegetable: "Vegetables",
	Grain:     "Grains",
	Protein:   "Protein",
	Dairy:     "Dairy",
	FatOther:  "Fats & other",
}

// Entry is one named food. Category may join several categories with "+",
// e.g. "grain+protein".
type Entry struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Category string `json:"category"`
}

// SubCategories splits a composite category into its trimmed parts.
func (e Entry) SubCategories() []string {
	var out []string
	for _, part := range strings.Split(e.Category, "+") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Taxonomy is the food table plus a color per category.
type Taxonomy struct {
	Colors map[string]string `json:"colors"`
	Foods  []Entry           `json:"foods"`
}

// CategoryColor returns the display color of a category, or "" if unknown.
func (t Taxonomy) CategoryColor(category string) string {
	return t.Colors[category]
}

// LoadTaxonomy decodes a taxonomy document.
func LoadTaxonomy(r io.Reader) (Taxonomy, error) {
	var t Taxonomy
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return Taxonomy{}, fmt.Errorf("decode taxonomy: %w", err)
	}
	for i, f := range t.Foods {
		if strings.TrimSpace(f.Name) == "" {
			return Taxonomy{}, fmt.Errorf("taxonomy food %d: empty name", i)
		}
	}
	return t, nil
}

// LoadTaxonomyFile reads a taxonomy from path.
func LoadTaxonomyFile(path string) (Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return Taxonomy{}, fmt.Errorf("open taxonomy: %w", err)
	}
	defer f.Close()
	return LoadTaxonomy(f)
}

// DefaultTaxonomy returns the taxonomy bundled with the binary.
func DefaultTaxonomy() Taxonomy {
	t, err := LoadTaxonomy(strings.NewReader(string(defaultTaxonomy)))
	if err != nil {
		panic(fmt.Sprintf("bundled taxonomy: %v", err))
	}
	return t
}
