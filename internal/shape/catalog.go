// Package shape provides the catalog of piece silhouettes.
// Shapes register themselves in init() functions, allowing the game to
// pick a random piece without a hardcoded list.
package shape

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vovakirdan/raytris/internal/geom"
	"github.com/vovakirdan/raytris/internal/probe"
)

// ErrInvalidShape is returned for a tag that names no registered shape.
var ErrInvalidShape = errors.New("invalid shape")

// Kind tags a shape variant.
type Kind string

// The five variants of the catalog.
const (
	I Kind = "I"
	J Kind = "J"
	L Kind = "L"
	O Kind = "O"
	T Kind = "T"
)

// String returns the tag.
func (k Kind) String() string {
	return string(k)
}

// Cell is one cube of a shape: its center relative to the shape origin
// and the faces that get a probe because nothing of the shape is there.
type Cell struct {
	Offset geom.Vec3
	Probes []probe.Direction
}

// Definition describes a shape variant.
type Definition struct {
	Kind  Kind
	Cells [4]Cell

	// Spawn returns where the shape origin goes so the shape enters
	// centered and fully visible below the ceiling of a width×height field.
	Spawn func(width, height int) geom.Vec3
}

// ProbeCount returns the number of probes the shape carries.
func (d Definition) ProbeCount() int {
	n := 0
	for _, c := range d.Cells {
		n += len(c.Probes)
	}
	return n
}

var (
	definitions = make(map[Kind]Definition)
	mu          sync.RWMutex
)

// Register adds a shape to the catalog.
// Panics if a shape with the same kind is already registered.
func Register(d Definition) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := definitions[d.Kind]; exists {
		panic(fmt.Sprintf("shape: %q already registered", d.Kind))
	}
	definitions[d.Kind] = d
}

// Lookup returns the definition for kind.
func Lookup(kind Kind) (Definition, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := definitions[kind]
	if !ok {
		return Definition{}, fmt.Errorf("shape: %w: %q", ErrInvalidShape, string(kind))
	}
	return d, nil
}

// Parse maps a tag such as "t" or "T" to a registered kind.
func Parse(tag string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(tag)))
	if _, err := Lookup(k); err != nil {
		return "", err
	}
	return k, nil
}

// Kinds returns every registered kind, sorted.
func Kinds() []Kind {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]Kind, 0, len(definitions))
	for k := range definitions {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// List returns every registered definition, sorted by kind.
func List() []Definition {
	kinds := Kinds()
	out := make([]Definition, 0, len(kinds))
	for _, k := range kinds {
		d, _ := Lookup(k)
		out = append(out, d)
	}
	return out
}
