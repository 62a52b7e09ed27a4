package gesture

import (
	"errors"
	"slices"
	"testing"
)

func permKeys(s PointerSpec) []string {
	keys := make([]string, 0, len(s.Permutations()))
	for _, p := range s.Permutations() {
		keys = append(keys, p.Key())
	}
	return keys
}

func TestParsePointerType(t *testing.T) {
	tests := []struct {
		expr string
		keys []string
		max  int
	}{
		{"touch", []string{"touch:1"}, 1},
		{"touch:2", []string{"touch:2"}, 2},
		{" Pen ", []string{"pen:1"}, 1},
		{"pen+touch", []string{"pen:1+touch:1"}, 2},
		{"touch+touch", []string{"touch:2"}, 2},
		{"touch|mouse", []string{"touch:1", "mouse:1"}, 1},
		{"touch|pen:2+mouse|touch", []string{"mouse:1+touch:1", "touch:2", "mouse:1+pen:2", "pen:2+touch:1"}, 3},
		{"touch|touch", []string{"touch:1"}, 1},
		{"hover", []string{"hover:1"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			spec, err := ParsePointerType(tt.expr)
			if err != nil {
				t.Fatalf("ParsePointerType(%q): %v", tt.expr, err)
			}
			if got := permKeys(spec); !slices.Equal(got, tt.keys) {
				t.Errorf("keys = %v, want %v", got, tt.keys)
			}
			if got := spec.MaxPointers(); got != tt.max {
				t.Errorf("MaxPointers = %d, want %d", got, tt.max)
			}
		})
	}
}

func TestParsePointerTypeErrors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"", ErrMissingPointerType},
		{"   ", ErrMissingPointerType},
		{"finger", ErrInvalidPointerType},
		{"touch:0", ErrInvalidPointerType},
		{"touch:x", ErrInvalidPointerType},
		{"touch+", ErrInvalidPointerType},
		{"pen||touch", ErrInvalidPointerType},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ParsePointerType(tt.expr)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPermutationOrderInsensitive(t *testing.T) {
	a, _ := ParsePointerType("pen+touch")
	b, _ := ParsePointerType("touch+pen")
	if permKeys(a)[0] != permKeys(b)[0] {
		t.Errorf("keys differ: %v vs %v", permKeys(a), permKeys(b))
	}
	// Written order is kept for ordinals.
	if a.Permutations()[0].Terms[0].Kind != PointerPen {
		t.Error("first term of pen+touch should be pen")
	}
	if b.Permutations()[0].Terms[0].Kind != PointerTouch {
		t.Error("first term of touch+pen should be touch")
	}
}

func TestPermutationSymmetricOr(t *testing.T) {
	a, _ := ParsePointerType("touch|pen+mouse")
	b, _ := ParsePointerType("mouse+pen|touch")
	ka, kb := permKeys(a), permKeys(b)
	slices.Sort(ka)
	slices.Sort(kb)
	if !slices.Equal(ka, kb) {
		t.Errorf("permutation sets differ: %v vs %v", ka, kb)
	}
}

func TestExpandPermutations(t *testing.T) {
	groups := [][]Term{
		{{Kind: PointerTouch, Count: 1}, {Kind: PointerPen, Count: 1}},
		{{Kind: PointerPen, Count: 1}, {Kind: PointerTouch, Count: 1}},
	}
	perms := ExpandPermutations(groups)
	// touch+pen, touch+touch, pen+pen; pen+touch duplicates touch+pen.
	if len(perms) != 3 {
		t.Fatalf("len = %d, want 3", len(perms))
	}
	want := []string{"pen:1+touch:1", "touch:2", "pen:2"}
	for i, p := range perms {
		if p.Key() != want[i] {
			t.Errorf("perms[%d] = %s, want %s", i, p.Key(), want[i])
		}
	}
	if perms[0].String() != "touch+pen" {
		t.Errorf("String = %q, want touch+pen", perms[0].String())
	}
	if ExpandPermutations(nil) != nil {
		t.Error("no groups should expand to nil")
	}
}

func TestPermutationMatchesExactly(t *testing.T) {
	spec, _ := ParsePointerType("touch:2")
	perm := spec.Permutations()[0]

	var c contactCounts
	c[PointerTouch] = 2
	if !perm.matches(c) {
		t.Error("touch:2 should match two touches")
	}
	c[PointerTouch] = 1
	if perm.matches(c) {
		t.Error("touch:2 should not match one touch")
	}
	if !perm.satisfiable(c) {
		t.Error("one touch can still grow into touch:2")
	}
	c[PointerTouch] = 2
	c[PointerPen] = 1
	if perm.matches(c) {
		t.Error("an unaccounted pen must prevent the match")
	}
	if perm.satisfiable(c) {
		t.Error("a pen can never grow into touch:2")
	}
	if perm.matches(contactCounts{}) {
		t.Error("no contacts never match")
	}
}

func TestPointerSpecUses(t *testing.T) {
	spec, _ := ParsePointerType("touch|pen:2+mouse")
	for _, k := range []PointerType{PointerTouch, PointerPen, PointerMouse} {
		if !spec.Uses(k) {
			t.Errorf("Uses(%s) = false", k)
		}
	}
	if spec.Uses(PointerHover) {
		t.Error("Uses(hover) = true")
	}
}

func TestPointerIDRoundTrip(t *testing.T) {
	id := PointerID{Type: PointerPen, NativeID: 12}
	if id.String() != "pen:12" {
		t.Fatalf("String = %q", id.String())
	}
	got, err := ParsePointerID("pen:12")
	if err != nil || got != id {
		t.Errorf("ParsePointerID = %v, %v", got, err)
	}
	for _, bad := range []string{"pen", "hover:1", "claw:1", "touch:x"} {
		if _, err := ParsePointerID(bad); err == nil {
			t.Errorf("ParsePointerID(%q) succeeded", bad)
		}
	}
}
