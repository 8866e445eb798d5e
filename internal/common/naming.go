package common

import "strconv"

// NameGenerator hands out names that are unique among every name it has
// seen. A taken name gets the first free numeric suffix starting at Start.
type NameGenerator struct {
	Start int
	used  map[string]struct{}
}

// NewNameGenerator seeds the generator with names already in use.
func NewNameGenerator(start int, taken ...string) *NameGenerator {
	g := &NameGenerator{Start: start, used: make(map[string]struct{}, len(taken))}
	for _, n := range taken {
		g.used[n] = struct{}{}
	}
	return g
}

// Contains reports whether name is taken.
func (g *NameGenerator) Contains(name string) bool {
	_, ok := g.used[name]
	return ok
}

// Add reserves name, or a suffixed variant when it is taken, and returns it.
func (g *NameGenerator) Add(name string) string {
	if g.used == nil {
		g.used = map[string]struct{}{}
	}
	candidate := name
	for i := g.Start; g.Contains(candidate); i++ {
		candidate = name + strconv.Itoa(i)
	}
	g.used[candidate] = struct{}{}
	return candidate
}
