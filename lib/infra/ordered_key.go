package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

// Float values are accepted as keys, but NaN has no total order.
// Trees keyed by floats must never receive a NaN.
type Float interface {
	~float32 | ~float64
}

// OrderedKey is the set of totally ordered value types a search tree
// is able to store. byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// CompareOrderedKey is the natural ascending comparator.
// Assume i is the new key.
//  1. i == j, return 0
//  2. i > j, return 1, turn to right part.
//  3. i < j, return -1, turn to left part.
func CompareOrderedKey[K OrderedKey](i, j K) int64 {
	if i == j {
		return 0
	} else if i < j {
		return -1
	}
	return 1
}
