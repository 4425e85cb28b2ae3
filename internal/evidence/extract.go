package evidence

import (
	"reflect"
	"sort"
)

// sourceFactIDsKey is the wire key that marks a citation list in untyped
// generation output.
const sourceFactIDsKey = "sourceFactIds"

// maxWalkDepth bounds the traversal; typical output is a handful of levels
// deep and anything past this is malformed.
const maxWalkDepth = 64

// ExtractAllFactIDs recursively walks arbitrarily nested JSON values (maps,
// slices, scalars) and collects every string found under a "sourceFactIds"
// key, flattened and deduplicated in first-seen order. Map keys are visited
// in sorted order so the result is deterministic.
//
// Cycles are not expected in decoded JSON, but a visited set guards the walk
// so a hand-built cyclic structure cannot loop forever.
func ExtractAllFactIDs(output interface{}) []string {
	w := &walker{
		seen:    make(map[string]bool),
		visited: make(map[uintptr]bool),
	}
	w.walk(output, "", 0)
	return w.ids
}

type walker struct {
	ids     []string
	seen    map[string]bool
	visited map[uintptr]bool
}

func (w *walker) emit(id string) {
	if id == "" || w.seen[id] {
		return
	}
	w.seen[id] = true
	w.ids = append(w.ids, id)
}

func (w *walker) walk(v interface{}, key string, depth int) {
	if depth > maxWalkDepth {
		return
	}

	switch val := v.(type) {
	case map[string]interface{}:
		if w.mark(val) {
			return
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			w.walk(val[k], k, depth+1)
		}

	case []interface{}:
		if w.mark(val) {
			return
		}
		// The key propagates so elements of a sourceFactIds array see it
		for _, child := range val {
			w.walk(child, key, depth+1)
		}

	case string:
		if key == sourceFactIDsKey {
			w.emit(val)
		}
	}
}

// mark records a container in the visited set; true means already seen
func (w *walker) mark(container interface{}) bool {
	ptr := reflect.ValueOf(container).Pointer()
	if w.visited[ptr] {
		return true
	}
	w.visited[ptr] = true
	return false
}
