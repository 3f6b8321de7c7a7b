// builtin_random.go
//
// Native `random` module:
//  1. randint(a, b) -> int, inclusive on both ends
//  2. randfloat(a, b) -> num
//  3. choice(seq) -> element of a nonempty list or string
//  4. shuffle(list) -> the same list, shuffled in place
//  5. sample(list, k) -> new list of k distinct elements
package bloa

import (
	"fmt"
	"math/rand"
)

func buildRandomModule(_ *Interpreter) *Module {
	m := newNativeModule("random")

	m.fn("randint", []string{"a", "b"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		a, err := argInt("random.randint", args, 0)
		if err != nil {
			return None, err
		}
		b, err := argInt("random.randint", args, 1)
		if err != nil {
			return None, err
		}
		if b < a {
			return None, &TypeMismatchError{Msg: fmt.Sprintf("random.randint empty range [%d, %d]", a, b)}
		}
		return Int(a + rand.Int63n(b-a+1)), nil
	})

	m.fn("randfloat", []string{"a", "b"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		a, err := argFloat("random.randfloat", args, 0)
		if err != nil {
			return None, err
		}
		b, err := argFloat("random.randfloat", args, 1)
		if err != nil {
			return None, err
		}
		return Num(a + rand.Float64()*(b-a)), nil
	})

	m.fn("choice", []string{"seq"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		switch args[0].Tag {
		case VTList:
			elems := args[0].Data.(*ListObject).Elems
			if len(elems) == 0 {
				return None, &TypeMismatchError{Msg: "random.choice on an empty list"}
			}
			return elems[rand.Intn(len(elems))], nil
		case VTStr:
			runes := []rune(args[0].Data.(string))
			if len(runes) == 0 {
				return None, &TypeMismatchError{Msg: "random.choice on an empty string"}
			}
			return Str(string(runes[rand.Intn(len(runes))])), nil
		}
		return None, &TypeMismatchError{Msg: "random.choice needs a list or string, got " + tagName(args[0].Tag)}
	})

	m.fn("shuffle", []string{"seq"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		lst, err := argList("random.shuffle", args, 0)
		if err != nil {
			return None, err
		}
		rand.Shuffle(len(lst.Elems), func(i, j int) {
			lst.Elems[i], lst.Elems[j] = lst.Elems[j], lst.Elems[i]
		})
		return args[0], nil
	})

	m.fn("sample", []string{"seq", "k"}, false, func(_ *Interpreter, args []Value) (Value, error) {
		lst, err := argList("random.sample", args, 0)
		if err != nil {
			return None, err
		}
		k, err := argInt("random.sample", args, 1)
		if err != nil {
			return None, err
		}
		if k < 0 || int(k) > len(lst.Elems) {
			return None, &TypeMismatchError{Msg: fmt.Sprintf("random.sample size %d out of range for list of %d", k, len(lst.Elems))}
		}
		idx := rand.Perm(len(lst.Elems))[:k]
		out := make([]Value, k)
		for i, j := range idx {
			out[i] = lst.Elems[j]
		}
		return List(out), nil
	})

	return m
}
