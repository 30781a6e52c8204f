package tagslot

import (
	"reflect"
	"sort"
	"testing"
)

func TestClassifyPriorityAndFallback(t *testing.T) {
	vocab := DefaultVocabularies()

	cases := []struct {
		tag  string
		want Category
	}{
		{"Prayer & Worship", CategoryAreaOfFocus},
		{"prayer & worship", CategoryAreaOfFocus},
		{"TEACHING & EDUCATION", CategoryContentPurpose},
		{"Expository & Scholarly", CategoryToneStyle},
		{"Definitely Not Preloaded", CategoryCustom},
		{"", CategoryCustom},
	}
	for _, tc := range cases {
		if got := Classify(tc.tag, vocab); got != tc.want {
			t.Fatalf("Classify(%q) = %v, want %v", tc.tag, got, tc.want)
		}
		// deterministic on repeat
		if got := Classify(tc.tag, vocab); got != tc.want {
			t.Fatalf("Classify(%q) unstable", tc.tag)
		}
	}
}

func TestClassifyTieBreaksByPriority(t *testing.T) {
	// same tag in two prescriptive vocabularies; first category in priority order wins
	vocab := Vocabularies{
		CategoryAreaOfFocus:    {"Shared Tag"},
		CategoryContentPurpose: {"Shared Tag"},
	}
	if got := Classify("shared tag", vocab); got != CategoryAreaOfFocus {
		t.Fatalf("tie break = %v, want CategoryAreaOfFocus", got)
	}
}

func TestBuildLayoutSlotCountInvariant(t *testing.T) {
	vocab := DefaultVocabularies()
	caps := DefaultCapacities()

	inputs := [][]string{
		nil,
		{},
		{"Prayer & Worship"},
		{"a", "b", "c", "d", "e", "f", "g", "h"},
	}
	for _, in := range inputs {
		l := BuildLayout(in, caps, vocab)
		if len(l) != caps.Total() {
			t.Fatalf("layout size for %v = %d, want %d", in, len(l), caps.Total())
		}
	}

	wide := SettingsCapacities()
	if got := len(BuildLayout(nil, wide, vocab)); got != wide.Total() {
		t.Fatalf("wide layout size = %d, want %d", got, wide.Total())
	}
}

func TestBuildLayoutEndToEnd(t *testing.T) {
	l := BuildLayout(
		[]string{"Prayer & Worship", "Teaching & Education", "CustomFoo"},
		DefaultCapacities(), DefaultVocabularies(),
	)

	want := Layout{
		{Category: CategoryAreaOfFocus, Ordinal: 0, Tag: "Prayer & Worship"},
		{Category: CategoryAreaOfFocus, Ordinal: 1},
		{Category: CategoryContentPurpose, Ordinal: 0, Tag: "Teaching & Education"},
		{Category: CategoryToneStyle, Ordinal: 0},
		{Category: CategoryCustom, Ordinal: 0, Tag: "CustomFoo"},
	}
	if !reflect.DeepEqual(l, want) {
		t.Fatalf("layout mismatch:\n got %+v\nwant %+v", l, want)
	}
}

func TestRoundTripUnderCapacity(t *testing.T) {
	vocab := DefaultVocabularies()
	caps := DefaultCapacities()

	in := []string{"CustomFoo", "Prayer & Worship", "Expository & Scholarly", "Teaching & Education"}
	out := Flatten(BuildLayout(in, caps, vocab))

	// same multiset, reordered by category
	a := append([]string(nil), in...)
	b := append([]string(nil), out...)
	sort.Strings(a)
	sort.Strings(b)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("round trip lost tags: in %v out %v", in, out)
	}
}

func TestLossyProjectionAboveCapacity(t *testing.T) {
	vocab := DefaultVocabularies()
	caps := DefaultCapacities()

	// three area-of-focus tags against capacity 2: first two by order survive
	in := []string{"Prayer & Worship", "Faith & Trust", "Hope & Comfort"}
	out := Flatten(BuildLayout(in, caps, vocab))

	want := []string{"Prayer & Worship", "Faith & Trust"}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("projection = %v, want %v", out, want)
	}
}

func TestBuildLayoutDoesNotMutateInput(t *testing.T) {
	in := []string{"CustomB", "CustomA"}
	orig := append([]string(nil), in...)
	_ = BuildLayout(in, DefaultCapacities(), DefaultVocabularies())
	if !reflect.DeepEqual(in, orig) {
		t.Fatalf("input mutated: %v", in)
	}
}

func TestApplySlotEditReplaceClearAndIdempotence(t *testing.T) {
	vocab := DefaultVocabularies()
	caps := DefaultCapacities()

	layout := BuildLayout([]string{"Prayer & Worship", "CustomFoo"}, caps, vocab)

	// replace second area slot
	once := ApplySlotEdit(layout, CategoryAreaOfFocus, 1, "Faith & Trust")
	want := []string{"Prayer & Worship", "Faith & Trust", "CustomFoo"}
	if !reflect.DeepEqual(once, want) {
		t.Fatalf("edit = %v, want %v", once, want)
	}

	// idempotent when reapplied on the rebuilt layout
	twice := ApplySlotEdit(BuildLayout(once, caps, vocab), CategoryAreaOfFocus, 1, "Faith & Trust")
	if !reflect.DeepEqual(twice, once) {
		t.Fatalf("edit not idempotent: %v vs %v", twice, once)
	}

	// clear a slot
	cleared := ApplySlotEdit(BuildLayout(once, caps, vocab), CategoryAreaOfFocus, 0, "")
	wantCleared := []string{"Faith & Trust", "CustomFoo"}
	if !reflect.DeepEqual(cleared, wantCleared) {
		t.Fatalf("clear = %v, want %v", cleared, wantCleared)
	}
}

func TestApplySlotEditAllowsSiblingDuplicates(t *testing.T) {
	vocab := DefaultVocabularies()
	caps := DefaultCapacities()

	layout := BuildLayout([]string{"Faith & Trust"}, caps, vocab)
	out := ApplySlotEdit(layout, CategoryAreaOfFocus, 1, "Faith & Trust")
	want := []string{"Faith & Trust", "Faith & Trust"}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("duplicate across sibling slots = %v, want %v", out, want)
	}
}

func TestFlattenCapsAtLayoutSize(t *testing.T) {
	caps := DefaultCapacities()
	layout := BuildLayout(
		[]string{"a", "b", "c", "d", "e", "f", "g"},
		caps, DefaultVocabularies(),
	)
	// only one custom slot: a single custom tag survives
	out := Flatten(layout)
	if len(out) > caps.Total() {
		t.Fatalf("flatten exceeded layout size: %v", out)
	}
	if !reflect.DeepEqual(out, []string{"a"}) {
		t.Fatalf("custom overflow = %v, want [a]", out)
	}
}
