package domain

// Deref returns *p, or fallback when p is nil. Optional payload fields are
// pointers so that "unset" and the zero value stay distinct.
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
