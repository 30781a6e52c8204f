// Package tagslot implements the fixed-capacity categorized tag model used by
// library and editor views. All functions are pure; callers own the flat tag
// list and rebuild layouts as needed.
package tagslot

import (
	"golang.org/x/text/cases"
)

// Category is one of the fixed tag groupings
type Category uint8

const (
	// CategoryAreaOfFocus holds topical focus tags
	CategoryAreaOfFocus Category = iota
	// CategoryContentPurpose holds intended-use tags
	CategoryContentPurpose
	// CategoryToneStyle holds delivery style tags
	CategoryToneStyle
	// CategoryCustom is the fallback for user supplied tags
	CategoryCustom
)

// categoryOrder is both the classification priority and the flatten order
var categoryOrder = [...]Category{
	CategoryAreaOfFocus,
	CategoryContentPurpose,
	CategoryToneStyle,
	CategoryCustom,
}

// String returns the wire name for a category
func (c Category) String() string {
	switch c {
	case CategoryAreaOfFocus:
		return "area_of_focus"
	case CategoryContentPurpose:
		return "content_purpose"
	case CategoryToneStyle:
		return "tone_style"
	default:
		return "custom"
	}
}

// Vocabularies holds the prescriptive tag list per category
// CategoryCustom needs no entry; it is the total fallback
type Vocabularies map[Category][]string

// CapacityTable holds the slot count per category
type CapacityTable map[Category]int

// Total returns the fixed layout size for a capacity table
func (c CapacityTable) Total() int {
	n := 0
	for _, cat := range categoryOrder {
		n += c[cat]
	}
	return n
}

// Slot is a (category, ordinal) position holding at most one tag
// Tag is empty when the slot is unfilled
type Slot struct {
	Category Category
	Ordinal  int
	Tag      string
}

// Empty reports whether the slot holds no tag
func (s Slot) Empty() bool { return s.Tag == "" }

// Layout is the full fixed-size slot projection of a flat tag list,
// ordered by category then ordinal
type Layout []Slot

// Classify maps a tag to its category by case-insensitive match against the
// prescriptive vocabularies, checked in fixed priority order; anything
// unmatched is Custom. Total over its input, never fails.
func Classify(tag string, vocab Vocabularies) Category {
	fold := cases.Fold()
	folded := fold.String(tag)
	for _, cat := range categoryOrder[:len(categoryOrder)-1] {
		for _, v := range vocab[cat] {
			if fold.String(v) == folded {
				return cat
			}
		}
	}
	return CategoryCustom
}

// BuildLayout projects a flat tag list into the fixed slot layout.
// Earlier tags win a category's slots when over capacity; excess tags are
// dropped from the projection. The result always has caps.Total() slots.
func BuildLayout(tags []string, caps CapacityTable, vocab Vocabularies) Layout {
	byCat := make(map[Category][]string, len(categoryOrder))
	for _, t := range tags {
		cat := Classify(t, vocab)
		if len(byCat[cat]) < caps[cat] {
			byCat[cat] = append(byCat[cat], t)
		}
	}

	out := make(Layout, 0, caps.Total())
	for _, cat := range categoryOrder {
		for i := 0; i < caps[cat]; i++ {
			s := Slot{Category: cat, Ordinal: i}
			if i < len(byCat[cat]) {
				s.Tag = byCat[cat][i]
			}
			out = append(out, s)
		}
	}
	return out
}

// Flatten reads a layout back into a flat tag list in fixed category order,
// omitting empty slots. The result length never exceeds the layout size.
func Flatten(layout Layout) []string {
	out := make([]string, 0, len(layout))
	for _, s := range layout {
		if !s.Empty() {
			out = append(out, s.Tag)
		}
	}
	return out
}

// ApplySlotEdit replaces or clears one slot (empty tag clears) and returns
// the new flat tag list to persist. The input layout is not mutated.
// Assigning a tag already held by a sibling slot is allowed; duplicates are
// a caller-level policy.
func ApplySlotEdit(layout Layout, cat Category, ordinal int, tag string) []string {
	work := make(Layout, len(layout))
	copy(work, layout)
	for i, s := range work {
		if s.Category == cat && s.Ordinal == ordinal {
			work[i].Tag = tag
			break
		}
	}
	return Flatten(work)
}
