// Package hashutil provides the DJB-style hash combinators the object
// model uses for map keys and tuple hashing, kept inline rather than
// pulled from a third-party hashing library since the combinator itself
// is a handful of lines.
package hashutil

const djbInit uint32 = 5381

func djbCombine(acc, h uint32) uint32 {
	return mul33(acc) + h
}

// DJB combines a sequence of hashes into one, used for hashing tuples
// element-by-element.
func DJB(hs ...uint32) uint32 {
	acc := djbInit
	for _, h := range hs {
		acc = djbCombine(acc, h)
	}
	return acc
}

// UInt64 folds a 64-bit value into a 32-bit hash.
func UInt64(u uint64) uint32 {
	return mul33(uint32(u>>32)) + uint32(u&0xffffffff)
}

// UIntPtr folds a machine-word-sized integer into a 32-bit hash, used for
// hashing INT object values.
func UIntPtr(p uintptr) uint32 {
	return UInt64(uint64(p))
}

// String hashes a string byte-by-byte with the DJB algorithm.
func String(s string) uint32 {
	h := djbInit
	for i := 0; i < len(s); i++ {
		h = djbCombine(h, uint32(s[i]))
	}
	return h
}

func mul33(u uint32) uint32 {
	return u<<5 + u
}
