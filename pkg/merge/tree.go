package merge

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// object is a key-ordered mapping node. Sequences are []any; everything
// else is a format-specific scalar.
type object = *orderedmap.OrderedMap[string, any]

func newObject() object {
	return orderedmap.New[string, any]()
}

// deepMerge writes src into dst. Nested objects merge key by key; any other
// value (scalars and sequences alike) replaces the destination value
// wholesale. Existing keys keep their position, new keys are appended.
func deepMerge(dst, src object) {
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		if current, ok := dst.Get(pair.Key); ok {
			dstObj, dstIsObj := current.(object)
			srcObj, srcIsObj := pair.Value.(object)
			if dstIsObj && srcIsObj {
				deepMerge(dstObj, srcObj)
				continue
			}
			// equal values keep the original's presentation
			if deepEqual(current, pair.Value) {
				continue
			}
		}
		dst.Set(pair.Key, pair.Value)
	}
}

// mergeRoots merges two document roots. Only object roots merge; otherwise
// the incoming root wins.
func mergeRoots(dst, src any) any {
	dstObj, dstIsObj := dst.(object)
	srcObj, srcIsObj := src.(object)
	if dstIsObj && srcIsObj {
		deepMerge(dstObj, srcObj)
		return dstObj
	}
	return src
}

// deepEqual compares two trees. Object comparison ignores key order.
func deepEqual(a, b any) bool {
	switch av := a.(type) {
	case object:
		bv, ok := b.(object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for pair := av.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := bv.Get(pair.Key)
			if !ok || !deepEqual(pair.Value, other) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
