// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// Float is the constraint satisfied by floating-point types.
type Float interface {
	~float32 | ~float64
}

// Clamp restricts x to the closed interval [lo, hi].
func Clamp[T Float](x, lo, hi T) T { return max(lo, min(hi, x)) }
