package components

import (
	"iter"
	"strings"

	"github.com/origadmin/structconv/internal/model"
)

// Pair is one matched property: Driving from the enumerated schema, Counterpart
// from the other one.
type Pair struct {
	Driving     *model.PropertyDescriptor
	Counterpart *model.PropertyDescriptor
}

// Match pairs the properties of driving with those of other by case-insensitive
// name, in driving's declaration order. Every property takes part in at most one
// pair; the first match wins. Properties without a match are left out.
func Match(reader model.SchemaReader, driving, other *model.TypeSchema, drivingMode, otherMode model.AccessMode) iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		candidates := reader.Properties(other, otherMode)
		used := make([]bool, len(candidates))
		for _, p := range reader.Properties(driving, drivingMode) {
			for i, c := range candidates {
				if used[i] || !strings.EqualFold(p.Name, c.Name) {
					continue
				}
				used[i] = true
				if !yield(Pair{Driving: p, Counterpart: c}) {
					return
				}
				break
			}
		}
	}
}
