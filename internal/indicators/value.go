package indicators

// Value is a single indicator observation. Defined is false while the
// indicator is still warming up; undefined values must never be compared
// or fed into signal or metric computation.
type Value struct {
	Float64 float64
	Defined bool
}

// Undefined is the zero observation for warm-up bars.
var Undefined = Value{}

// Def wraps a float in a defined Value.
func Def(v float64) Value {
	return Value{Float64: v, Defined: true}
}

func undefinedSeries(n int) []Value {
	return make([]Value, n)
}
