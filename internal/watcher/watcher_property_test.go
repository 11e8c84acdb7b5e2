//go:build property

package watcher

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestBatchProperties checks how a burst of events collapses into one
// batch.
func TestBatchProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Op carries the event's position in the burst so the winner can be
	// identified.
	drained := func(ids []int) []ChangeEvent {
		var b batch
		for i, id := range ids {
			b.add(ChangeEvent{Path: fmt.Sprintf("doc%d.yml", id), Op: Op(i)})
		}
		return b.drain()
	}

	properties.Property("each path appears once", prop.ForAll(
		func(ids []int) bool {
			seen := make(map[string]bool)
			for _, e := range drained(ids) {
				if seen[e.Path] {
					return false
				}
				seen[e.Path] = true
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.Property("every path is delivered", prop.ForAll(
		func(ids []int) bool {
			distinct := make(map[int]bool)
			for _, id := range ids {
				distinct[id] = true
			}
			return len(drained(ids)) == len(distinct)
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.Property("last event for a path wins", prop.ForAll(
		func(ids []int) bool {
			last := make(map[string]Op)
			for i, id := range ids {
				last[fmt.Sprintf("doc%d.yml", id)] = Op(i)
			}
			for _, e := range drained(ids) {
				if last[e.Path] != e.Op {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.Property("paths keep their first-seen order", prop.ForAll(
		func(ids []int) bool {
			var want []string
			seen := make(map[string]bool)
			for _, id := range ids {
				p := fmt.Sprintf("doc%d.yml", id)
				if !seen[p] {
					seen[p] = true
					want = append(want, p)
				}
			}
			got := drained(ids)
			for i := range want {
				if got[i].Path != want[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}
