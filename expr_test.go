package bloa

import (
	"errors"
	"testing"
)

func evalIn(t *testing.T, ip *Interpreter, expr string) Value {
	t.Helper()
	v, err := ip.EvalExpr(expr, ip.Global)
	if err != nil {
		t.Fatalf("eval error for %q: %v", expr, err)
	}
	return v
}

func Test_Expr_Arithmetic(t *testing.T) {
	ip, _ := newTestInterp("")
	wantInt(t, evalIn(t, ip, "2 + 3 * 4"), 14)
	wantInt(t, evalIn(t, ip, "(2 + 3) * 4"), 20)
	wantInt(t, evalIn(t, ip, "10 - 7"), 3)
	wantNum(t, evalIn(t, ip, "7 / 2"), 3.5)
	wantNum(t, evalIn(t, ip, "4 / 2"), 2)
	wantInt(t, evalIn(t, ip, "7 // 2"), 3)
	wantInt(t, evalIn(t, ip, "-7 // 2"), -4)
	wantInt(t, evalIn(t, ip, "7 % 3"), 1)
	wantInt(t, evalIn(t, ip, "-7 % 3"), 2)
	wantInt(t, evalIn(t, ip, "2 ** 10"), 1024)
	wantNum(t, evalIn(t, ip, "2 ** -1"), 0.5)
	wantNum(t, evalIn(t, ip, "2.0 ** 2"), 4)
}

func Test_Expr_PowIsRightAssociative(t *testing.T) {
	ip, _ := newTestInterp("")
	wantInt(t, evalIn(t, ip, "2 ** 3 ** 2"), 512)
}

func Test_Expr_UnaryMinusBindsLooserThanPow(t *testing.T) {
	ip, _ := newTestInterp("")
	wantInt(t, evalIn(t, ip, "-2 ** 2"), -4)
}

func Test_Expr_DivisionByZero(t *testing.T) {
	ip, _ := newTestInterp("")
	for _, expr := range []string{"1 / 0", "1 // 0", "1 % 0"} {
		if _, err := ip.EvalExpr(expr, ip.Global); err == nil {
			t.Fatalf("%q: expected error", expr)
		}
	}
}

func Test_Expr_StringConcatAndRepeat(t *testing.T) {
	ip, _ := newTestInterp("")
	wantStr(t, evalIn(t, ip, `"foo" + "bar"`), "foobar")
	wantStr(t, evalIn(t, ip, `"ab" * 3`), "ababab")
	wantStr(t, evalIn(t, ip, `3 * "ab"`), "ababab")
}

func Test_Expr_MixedConcatIsTypeError(t *testing.T) {
	ip, _ := newTestInterp("")
	_, err := ip.EvalExpr(`"n = " + 3`, ip.Global)
	var te *TypeMismatchError
	if !errors.As(err, &te) {
		t.Fatalf("want *TypeMismatchError, got %T: %v", err, err)
	}
}

func Test_Expr_Comparisons(t *testing.T) {
	ip, _ := newTestInterp("")
	wantBool(t, evalIn(t, ip, "1 < 2"), true)
	wantBool(t, evalIn(t, ip, "2 <= 2"), true)
	wantBool(t, evalIn(t, ip, "1 > 2"), false)
	wantBool(t, evalIn(t, ip, "1 == 1.0"), true)
	wantBool(t, evalIn(t, ip, `"a" < "b"`), true)
	wantBool(t, evalIn(t, ip, `"x" != "y"`), true)
	wantBool(t, evalIn(t, ip, "[1, 2] == [1, 2]"), true)
}

func Test_Expr_ShortCircuitYieldsDecidingOperand(t *testing.T) {
	ip, _ := newTestInterp("")
	wantInt(t, evalIn(t, ip, "0 or 5"), 5)
	wantInt(t, evalIn(t, ip, "3 or 5"), 3)
	wantStr(t, evalIn(t, ip, `"" and "x"`), "")
	wantStr(t, evalIn(t, ip, `"a" and "x"`), "x")
	// The right side must not evaluate when the left decides.
	wantInt(t, evalIn(t, ip, "1 or missing_name"), 1)
	wantInt(t, evalIn(t, ip, "0 and missing_name"), 0)
}

func Test_Expr_NotUsesTruthiness(t *testing.T) {
	ip, _ := newTestInterp("")
	wantBool(t, evalIn(t, ip, "not 0"), true)
	wantBool(t, evalIn(t, ip, `not "x"`), false)
	wantBool(t, evalIn(t, ip, "not []"), true)
	wantBool(t, evalIn(t, ip, "not none"), true)
	wantBool(t, evalIn(t, ip, "!true"), false)
}

func Test_Expr_Indexing(t *testing.T) {
	ip, _ := newTestInterp("")
	wantInt(t, evalIn(t, ip, "[10, 20, 30][1]"), 20)
	wantInt(t, evalIn(t, ip, "[10, 20, 30][-1]"), 30)
	wantStr(t, evalIn(t, ip, `"abc"[0]`), "a")
	wantStr(t, evalIn(t, ip, `"abc"[-1]`), "c")
	wantStr(t, evalIn(t, ip, `{1: "one"}[1]`), "one")
	if _, err := ip.EvalExpr("[1][5]", ip.Global); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func Test_Expr_TuplesEvaluateToLists(t *testing.T) {
	ip, _ := newTestInterp("")
	v := evalIn(t, ip, "(1, 2, 3)")
	if v.Tag != VTList || len(v.Data.(*ListObject).Elems) != 3 {
		t.Fatalf("tuple: %#v", v)
	}
	if v := evalIn(t, ip, "()"); v.Tag != VTList || len(v.Data.(*ListObject).Elems) != 0 {
		t.Fatalf("empty tuple: %#v", v)
	}
	wantInt(t, evalIn(t, ip, "(1 + 2)"), 3) // grouping, not a tuple
}

func Test_Expr_MapPreservesInsertionOrder(t *testing.T) {
	ip, _ := newTestInterp("")
	v := evalIn(t, ip, `{"b": 1, "a": 2, "c": 3}`)
	keys := v.Data.(*MapObject).Keys()
	want := []string{"b", "a", "c"}
	for i, k := range keys {
		if k.Data.(string) != want[i] {
			t.Fatalf("key order: %#v", keys)
		}
	}
}

func Test_Expr_NameResolutionFallsBackToRegistry(t *testing.T) {
	ip, _ := newTestInterp("")
	if err := ip.Execute("function double(n):\n    return n * 2", "test"); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	wantInt(t, evalIn(t, ip, "double(21)"), 42)
	if v := evalIn(t, ip, "double"); v.Tag != VTFun {
		t.Fatalf("registry name as value: %#v", v)
	}
}

func Test_Expr_CallIgnoresNonCallableBindingWhenRegistryHasTheName(t *testing.T) {
	ip, _ := newTestInterp("")
	src := "function double(n):\n    return n * 2\ndouble = 5\n"
	if err := ip.Execute(src, "test"); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	wantInt(t, evalIn(t, ip, "double(21)"), 42)
	// The plain name still resolves to the shadowing value.
	wantInt(t, evalIn(t, ip, "double"), 5)
}

func Test_Expr_UndefinedNameKeepsItsType(t *testing.T) {
	ip, _ := newTestInterp("")
	_, err := ip.EvalExpr("nope + 1", ip.Global)
	var ue *UndefinedNameError
	if !errors.As(err, &ue) || ue.Name != "nope" {
		t.Fatalf("want *UndefinedNameError for nope, got %T: %v", err, err)
	}
}

func Test_Expr_NonTaxonomyFailureBecomesEvaluationError(t *testing.T) {
	ip, _ := newTestInterp("")
	_, err := ip.EvalExpr("1 / 0", ip.Global)
	var ee *EvaluationError
	if !errors.As(err, &ee) {
		t.Fatalf("want *EvaluationError, got %T: %v", err, err)
	}
	if ee.Expr != "1 / 0" {
		t.Fatalf("wrapped expr: %q", ee.Expr)
	}
}

func Test_ParseLiteral(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"42", true},
		{" 3.5 ", true},
		{"-7", true},
		{`"hi"`, true},
		{"'hi'", true},
		{"TRUE", true},
		{"none", true},
		{"[1, 2, [3]]", true},
		{`{"k": 1}`, true},
		{"(1, 2)", true},
		{"foo", false},
		{"1 + 2", false},
		{"[1, x]", false},
	}
	for _, c := range cases {
		v, ok := ParseLiteral(c.in)
		if ok != c.ok {
			t.Fatalf("ParseLiteral(%q): ok=%v, want %v (v=%#v)", c.in, ok, c.ok, v)
		}
	}
	v, _ := ParseLiteral("-7")
	wantInt(t, v, -7)
	v, _ = ParseLiteral("TRUE")
	wantBool(t, v, true)
}
