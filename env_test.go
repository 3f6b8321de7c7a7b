package bloa

import (
	"errors"
	"testing"
)

func Test_Env_DefineAndGet(t *testing.T) {
	e := NewEnv(nil)
	e.Define("x", Int(1))
	v, err := e.Get("x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wantInt(t, v, 1)
}

func Test_Env_GetWalksParentChain(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Int(1))
	child := NewEnv(NewEnv(root))
	v, err := child.Get("x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	wantInt(t, v, 1)
}

func Test_Env_UndefinedNameError(t *testing.T) {
	_, err := NewEnv(nil).Get("ghost")
	var ue *UndefinedNameError
	if !errors.As(err, &ue) || ue.Name != "ghost" {
		t.Fatalf("got %T: %v", err, err)
	}
}

func Test_Env_DefineShadowsOuter(t *testing.T) {
	outer := NewEnv(nil)
	outer.Define("x", Int(1))
	inner := NewEnv(outer)
	inner.Define("x", Int(2))

	v, _ := inner.Get("x")
	wantInt(t, v, 2)
	v, _ = outer.Get("x")
	wantInt(t, v, 1)
}

func Test_Env_AssignUpdatesNearestExistingBinding(t *testing.T) {
	outer := NewEnv(nil)
	outer.Define("x", Int(1))
	inner := NewEnv(outer)
	inner.Assign("x", Int(9))

	v, _ := outer.Get("x")
	wantInt(t, v, 9)
	if _, ok := inner.table["x"]; ok {
		t.Fatal("assign created a shadow instead of updating")
	}
}

func Test_Env_AssignDefinesLocallyWhenUnbound(t *testing.T) {
	outer := NewEnv(nil)
	inner := NewEnv(outer)
	inner.Assign("fresh", Int(1))

	if _, err := outer.Get("fresh"); err == nil {
		t.Fatal("unbound assign escaped to the parent frame")
	}
	v, _ := inner.Get("fresh")
	wantInt(t, v, 1)
}

func Test_Env_SealedFrameIsNotWritableThroughChain(t *testing.T) {
	core := NewEnv(nil)
	core.Define("print", Int(0)) // stand-in binding
	core.Seal()
	global := NewEnv(core)

	global.Assign("print", Int(7))

	// The core binding is untouched; the write landed in global as a shadow.
	v, _ := core.Get("print")
	wantInt(t, v, 0)
	v, _ = global.Get("print")
	wantInt(t, v, 7)
}

func Test_Env_HasChecksWholeChain(t *testing.T) {
	outer := NewEnv(nil)
	outer.Define("x", Int(1))
	inner := NewEnv(outer)
	if !inner.Has("x") || inner.Has("y") {
		t.Fatal("Has gave a wrong answer")
	}
}

func Test_Env_VisibleInnermostWins(t *testing.T) {
	outer := NewEnv(nil)
	outer.Define("x", Int(1))
	outer.Define("y", Int(2))
	inner := NewEnv(outer)
	inner.Define("x", Int(10))

	all := inner.Visible()
	wantInt(t, all["x"], 10)
	wantInt(t, all["y"], 2)
}
