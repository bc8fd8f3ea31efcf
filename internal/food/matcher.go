package food

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

// SegmentKind tells plain text apart from a tagged food.
type SegmentKind string

const (
	KindText SegmentKind = "text"
	KindFood SegmentKind = "food"
)

// Segment is one piece of colorized text. Food segments carry the matched
// entry's color and category.
type Segment struct {
	Kind     SegmentKind `json:"kind"`
	Content  string      `json:"content"`
	Color    string      `json:"color,omitempty"`
	Category string      `json:"category,omitempty"`
}

// Stats counts food mentions per category.
type Stats map[string]int

type candidate struct {
	entry Entry
	runes int
}

// Matcher scans text for taxonomy foods, longest name first.
type Matcher struct {
	taxonomy   Taxonomy
	candidates []candidate
}

// NewMatcher prepares t for matching. Entries are tried longest first so
// "cottage cheese" wins over "cheese" at the same position; equal lengths
// keep table order.
func NewMatcher(t Taxonomy) *Matcher {
	m := &Matcher{taxonomy: t}
	for _, f := range t.Foods {
		n := utf8.RuneCountInString(f.Name)
		if n == 0 {
			continue
		}
		m.candidates = append(m.candidates, candidate{entry: f, runes: n})
	}
	sort.SliceStable(m.candidates, func(i, j int) bool {
		return m.candidates[i].runes > m.candidates[j].runes
	})
	return m
}

// Taxonomy returns the table the matcher was built from.
func (m *Matcher) Taxonomy() Taxonomy {
	return m.taxonomy
}

// match returns the longest entry that starts at rune offset i.
func (m *Matcher) match(text []rune, i int) (candidate, bool) {
	for _, c := range m.candidates {
		end := i + c.runes
		if end > len(text) {
			continue
		}
		if strings.EqualFold(string(text[i:end]), c.entry.Name) {
			return c, true
		}
	}
	return candidate{}, false
}

// Colorize splits text into segments. Concatenating the segment contents
// always reproduces text exactly. Unmatched input is emitted one character
// per segment.
func (m *Matcher) Colorize(text string) []Segment {
	if strings.TrimSpace(text) == "" {
		return []Segment{{Kind: KindText, Content: text}}
	}

	runes := []rune(text)
	var segments []Segment
	for i := 0; i < len(runes); {
		if c, ok := m.match(runes, i); ok {
			segments = append(segments, Segment{
				Kind:     KindFood,
				Content:  string(runes[i : i+c.runes]),
				Color:    c.entry.Color,
				Category: c.entry.Category,
			})
			i += c.runes
			continue
		}
		segments = append(segments, Segment{Kind: KindText, Content: string(runes[i])})
		i++
	}
	return segments
}

// CountByCategory counts food mentions in text. A composite category adds
// one to each of its parts; the "other" category is never counted.
func (m *Matcher) CountByCategory(text string) Stats {
	counts := Stats{}
	runes := []rune(text)
	for i := 0; i < len(runes); {
		c, ok := m.match(runes, i)
		if !ok {
			i++
			continue
		}
		for _, cat := range c.entry.SubCategories() {
			if cat != other {
				counts[cat]++
			}
		}
		i += c.runes
	}
	return counts
}

// Add folds more into s.
func (s Stats) Add(more Stats) {
	for cat, n := range more {
		s[cat] += n
	}
}

// Underrepresented returns the categories worth eating more of: every
// category whose count is at or below 40% of the busiest category, zero
// counts included. Results follow the order of Categories.
func Underrepresented(stats Stats) []string {
	maxCount := 1
	for _, cat := range Categories {
		if stats[cat] > maxCount {
			maxCount = stats[cat]
		}
	}
	threshold := int(math.Floor(float64(maxCount) * 0.4))

	var out []string
	for _, cat := range Categories {
		if stats[cat] <= threshold {
			out = append(out, cat)
		}
	}
	return out
}
