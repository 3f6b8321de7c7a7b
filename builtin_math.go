// builtin_math.go
//
// Native `math` module:
//  functions: sin, cos, tan, sqrt, log, exp, add, sub, mul, div
//  constants: pi, e
//
// The constants live as module variables rather than functions, so module
// attribute lookup exercises both tiers.
package bloa

import "math"

func buildMathModule(_ *Interpreter) *Module {
	m := newNativeModule("math")

	unary := func(name string, f func(float64) float64) {
		m.fn(name, []string{"x"}, false, func(_ *Interpreter, args []Value) (Value, error) {
			x, err := argFloat("math."+name, args, 0)
			if err != nil {
				return None, err
			}
			return Num(f(x)), nil
		})
	}
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("sqrt", math.Sqrt)
	unary("log", math.Log)
	unary("exp", math.Exp)

	// add/sub/mul keep integers integral; div always widens.
	intOp := func(name string, fi func(a, b int64) int64, ff func(a, b float64) float64) {
		m.fn(name, []string{"a", "b"}, false, func(_ *Interpreter, args []Value) (Value, error) {
			if args[0].Tag == VTInt && args[1].Tag == VTInt {
				return Int(fi(args[0].Data.(int64), args[1].Data.(int64))), nil
			}
			a, err := argFloat("math."+name, args, 0)
			if err != nil {
				return None, err
			}
			b, err := argFloat("math."+name, args, 1)
			if err != nil {
				return None, err
			}
			return Num(ff(a, b)), nil
		})
	}
	intOp("add", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	intOp("sub", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	intOp("mul", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })

	m.fn("div", []string{"a", "b"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		a, err := argFloat("math.div", args, 0)
		if err != nil {
			return None, err
		}
		b, err := argFloat("math.div", args, 1)
		if err != nil {
			return None, err
		}
		if b == 0 {
			return None, &TypeMismatchError{Msg: "division by zero in math.div()"}
		}
		return Num(a / b), nil
	})

	m.constant("pi", Num(math.Pi))
	m.constant("e", Num(math.E))

	return m
}
