// builtin_core.go — the fixed builtin allowlist installed into Core.
//
// These are the only host capabilities reachable from expression evaluation;
// everything else comes in through explicit module imports. Each builtin is
// a native Fun bound by name in the Core frame, which is sealed right after
// registration.
package bloa

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// registerCoreBuiltins installs the allowlist: print, len, int, str, float,
// range.
func registerCoreBuiltins(ip *Interpreter) {
	native := func(name string, params []string, variadic bool, impl NativeImpl) {
		ip.Core.Define(name, FunVal(&Fun{
			Kind:     FunNative,
			Name:     name,
			Params:   params,
			Variadic: variadic,
			Impl:     impl,
		}))
	}

	// print(args...) — space-joined, newline-terminated, to the output channel.
	native("print", nil, true, func(ip *Interpreter, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = FormatValue(a)
		}
		fmt.Fprintln(ip.Stdout, strings.Join(parts, " "))
		return None, nil
	})

	// len(x) — characters of a string, elements of a list, entries of a map.
	native("len", []string{"x"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		switch args[0].Tag {
		case VTStr:
			return Int(int64(utf8.RuneCountInString(args[0].Data.(string)))), nil
		case VTList:
			return Int(int64(len(args[0].Data.(*ListObject).Elems))), nil
		case VTMap:
			return Int(int64(args[0].Data.(*MapObject).Len())), nil
		}
		return None, &TypeMismatchError{Msg: fmt.Sprintf("len() needs a string, list, or map, got %s", tagName(args[0].Tag))}
	})

	// int(x) — truncating conversion; strings must parse as an integer.
	native("int", []string{"x"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		switch v := args[0]; v.Tag {
		case VTInt:
			return v, nil
		case VTNum:
			return Int(int64(math.Trunc(v.Data.(float64)))), nil
		case VTBool:
			if v.Data.(bool) {
				return Int(1), nil
			}
			return Int(0), nil
		case VTStr:
			n, err := strconv.ParseInt(strings.TrimSpace(v.Data.(string)), 10, 64)
			if err != nil {
				return None, &TypeMismatchError{Msg: fmt.Sprintf("int() cannot convert %q", v.Data.(string))}
			}
			return Int(n), nil
		}
		return None, &TypeMismatchError{Msg: fmt.Sprintf("int() cannot convert %s", tagName(args[0].Tag))}
	})

	// float(x) — widening conversion; strings must parse as a number.
	native("float", []string{"x"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		switch v := args[0]; v.Tag {
		case VTNum:
			return v, nil
		case VTInt:
			return Num(float64(v.Data.(int64))), nil
		case VTBool:
			if v.Data.(bool) {
				return Num(1), nil
			}
			return Num(0), nil
		case VTStr:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Data.(string)), 64)
			if err != nil {
				return None, &TypeMismatchError{Msg: fmt.Sprintf("float() cannot convert %q", v.Data.(string))}
			}
			return Num(f), nil
		}
		return None, &TypeMismatchError{Msg: fmt.Sprintf("float() cannot convert %s", tagName(args[0].Tag))}
	})

	// str(x) — the same rendering say uses.
	native("str", []string{"x"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		return Str(FormatValue(args[0])), nil
	})

	// range(stop) / range(start, stop) / range(start, stop, step) — a list of
	// integers; step must be nonzero.
	native("range", nil, true, func(_ *Interpreter, args []Value) (Value, error) {
		if len(args) < 1 || len(args) > 3 {
			return None, &ArityError{Fun: "range", Want: 1, Got: len(args)}
		}
		nums := make([]int64, len(args))
		for i, a := range args {
			if a.Tag != VTInt {
				return None, &TypeMismatchError{Msg: fmt.Sprintf("range() needs integers, got %s", tagName(a.Tag))}
			}
			nums[i] = a.Data.(int64)
		}
		start, stop, step := int64(0), int64(0), int64(1)
		switch len(nums) {
		case 1:
			stop = nums[0]
		case 2:
			start, stop = nums[0], nums[1]
		case 3:
			start, stop, step = nums[0], nums[1], nums[2]
			if step == 0 {
				return None, &TypeMismatchError{Msg: "range() step must not be zero"}
			}
		}
		var elems []Value
		if step > 0 {
			for i := start; i < stop; i += step {
				elems = append(elems, Int(i))
			}
		} else {
			for i := start; i > stop; i += step {
				elems = append(elems, Int(i))
			}
		}
		return List(elems), nil
	})
}
