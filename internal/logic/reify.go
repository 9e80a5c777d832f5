package logic

// Reifier is implemented by composite types that contain Val fields.
// Reify returns a copy in which every nested Val is resolved, or false if
// any nested variable is unbound.
type Reifier[T any] interface {
	Reify(s *State) (T, bool)
}

// Reify extracts the fully dereferenced value of v from s, recursing into
// composite values. Returns false if v, or any variable nested inside it,
// is unbound; that is "no value for this result", not an error.
func Reify[T any](s *State, v Val[T]) (T, bool) {
	v = v.Resolve(s)
	if v.IsVar() {
		var zero T
		return zero, false
	}
	if r, ok := any(*v.value).(Reifier[T]); ok {
		return r.Reify(s)
	}
	return *v.value, true
}
