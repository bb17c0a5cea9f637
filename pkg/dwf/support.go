package dwf

import "strings"

type enumeration[T any] interface {
	~int
	variants() []T
	String() string
}

// Support is the set of variants an instrument reports as available, decoded
// from an SDK "info" bitmask: variant v is supported when bit v is set.
// The zero-valued variant is always reported as supported.
type Support[T enumeration[T]] uint32

// Has reports whether v is supported.
func (s Support[T]) Has(v T) bool {
	if v == 0 {
		return true
	}
	if v < 0 || v > 31 {
		return false
	}
	return uint32(s)&(1<<uint(v)) != 0
}

// Variants lists the supported known variants in declaration order.
func (s Support[T]) Variants() []T {
	var zero T
	var out []T
	for _, v := range zero.variants() {
		if s.Has(v) {
			out = append(out, v)
		}
	}
	return out
}

func (s Support[T]) String() string {
	vs := s.Variants()
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// SupportOf builds a Support set from explicit variants.
func SupportOf[T enumeration[T]](vs ...T) Support[T] {
	var mask uint32
	for _, v := range vs {
		if v >= 0 && v <= 31 {
			mask |= 1 << uint(v)
		}
	}
	return Support[T](mask)
}
