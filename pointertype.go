package gesture

import (
	"fmt"
	"strconv"
	"strings"
)

// Term is one AND-term of a permutation: Count pointers of Kind.
type Term struct {
	Kind  PointerType
	Count int
}

func (t Term) String() string {
	if t.Count == 1 {
		return t.Kind.String()
	}
	return t.Kind.String() + ":" + strconv.Itoa(t.Count)
}

// contactCounts holds the number of active contacts per PointerType.
type contactCounts [numPointerKinds]int

func (c contactCounts) total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Permutation is one concrete combination of pointers a gesture accepts.
// Terms keep the order they were written in, which fixes the ordinals
// handlers use ("{P1}", "touch:2"); matching only looks at the counts.
type Permutation struct {
	Terms  []Term
	counts contactCounts
	key    string
}

func newPermutation(terms []Term) Permutation {
	p := Permutation{Terms: terms}
	for _, t := range terms {
		p.counts[t.Kind] += t.Count
	}
	var b strings.Builder
	for k := PointerMouse; k < numPointerKinds; k++ {
		if p.counts[k] == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('+')
		}
		b.WriteString(k.String())
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.counts[k]))
	}
	p.key = b.String()
	return p
}

// Count returns how many pointers of kind k the permutation requires.
func (p Permutation) Count(k PointerType) int {
	if int(k) >= numPointerKinds {
		return 0
	}
	return p.counts[k]
}

// Total returns the number of pointers the permutation requires.
func (p Permutation) Total() int {
	return p.counts.total()
}

// Key is the order-insensitive canonical form, e.g. "pen:1+touch:2".
func (p Permutation) Key() string {
	return p.key
}

// String renders the terms in written order.
func (p Permutation) String() string {
	parts := make([]string, len(p.Terms))
	for i, t := range p.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, "+")
}

// matches reports an exact fit: every declared kind has exactly the active
// count and no active kind is left unaccounted for.
func (p Permutation) matches(c contactCounts) bool {
	if c.total() == 0 {
		return false
	}
	return p.counts == c
}

// satisfiable reports whether the active contacts could still grow into this
// permutation.
func (p Permutation) satisfiable(c contactCounts) bool {
	if c.total() == 0 {
		return false
	}
	for k := range c {
		if c[k] > p.counts[k] {
			return false
		}
	}
	return true
}

// PointerSpec is a parsed pointer-type expression such as "touch|pen:2+mouse".
type PointerSpec struct {
	source string
	perms  []Permutation
}

// ParsePointerType parses a pointer-type expression. AND-terms are joined with
// '+', alternatives with '|', and an optional ":n" gives a count (default 1).
func ParsePointerType(s string) (PointerSpec, error) {
	src := strings.ToLower(strings.TrimSpace(s))
	if src == "" {
		return PointerSpec{}, ErrMissingPointerType
	}
	var groups [][]Term
	for _, and := range strings.Split(src, "+") {
		var alts []Term
		for _, alt := range strings.Split(and, "|") {
			t, err := parseTerm(strings.TrimSpace(alt))
			if err != nil {
				return PointerSpec{}, fmt.Errorf("%w %q: %v", ErrInvalidPointerType, s, err)
			}
			alts = append(alts, t)
		}
		groups = append(groups, alts)
	}
	return PointerSpec{source: src, perms: ExpandPermutations(groups)}, nil
}

func parseTerm(s string) (Term, error) {
	name, num, hasCount := strings.Cut(s, ":")
	kind, ok := parsePointerKind(name)
	if !ok {
		return Term{}, fmt.Errorf("unknown pointer type %q", name)
	}
	count := 1
	if hasCount {
		n, err := strconv.Atoi(num)
		if err != nil || n < 1 {
			return Term{}, fmt.Errorf("bad count %q", num)
		}
		count = n
	}
	return Term{Kind: kind, Count: count}, nil
}

// ExpandPermutations returns the cross product of each AND-group's
// alternatives, dropping permutations whose counts equal an earlier one.
// "pen+touch" and "touch+pen" therefore collapse into one permutation.
func ExpandPermutations(groups [][]Term) []Permutation {
	if len(groups) == 0 {
		return nil
	}
	combos := [][]Term{nil}
	for _, alts := range groups {
		next := make([][]Term, 0, len(combos)*len(alts))
		for _, prefix := range combos {
			for _, alt := range alts {
				c := make([]Term, len(prefix), len(prefix)+1)
				copy(c, prefix)
				next = append(next, append(c, alt))
			}
		}
		combos = next
	}

	seen := make(map[string]struct{}, len(combos))
	perms := make([]Permutation, 0, len(combos))
	for _, c := range combos {
		p := newPermutation(c)
		if _, dup := seen[p.key]; dup {
			continue
		}
		seen[p.key] = struct{}{}
		perms = append(perms, p)
	}
	return perms
}

// Source returns the normalized expression.
func (s PointerSpec) Source() string {
	return s.source
}

// Permutations returns the expanded permutations. The slice MUST NOT be mutated.
func (s PointerSpec) Permutations() []Permutation {
	return s.perms
}

// IsZero reports whether the pointer type was never parsed.
func (s PointerSpec) IsZero() bool {
	return len(s.perms) == 0
}

// MaxPointers returns the largest pointer count over all permutations.
func (s PointerSpec) MaxPointers() int {
	most := 0
	for _, p := range s.perms {
		if n := p.Total(); n > most {
			most = n
		}
	}
	return most
}

// Uses reports whether any permutation involves kind k.
func (s PointerSpec) Uses(k PointerType) bool {
	for _, p := range s.perms {
		if p.Count(k) > 0 {
			return true
		}
	}
	return false
}

// match returns the first permutation that exactly fits c.
func (s PointerSpec) match(c contactCounts) (Permutation, bool) {
	for _, p := range s.perms {
		if p.matches(c) {
			return p, true
		}
	}
	return Permutation{}, false
}

func (s PointerSpec) satisfiable(c contactCounts) bool {
	for _, p := range s.perms {
		if p.satisfiable(c) {
			return true
		}
	}
	return false
}
