package bloa

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeModule(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}
}

func newPathInterp(t *testing.T, dir string) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	ip := New(Options{
		ModulePath: dir,
		Stdout:     &out,
		Stderr:     &out,
		Stdin:      strings.NewReader(""),
	})
	return ip, &out
}

func Test_Import_FileModuleTwoTierAccess(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "shapes.bloa", `version = "1.0"
function area(w, h):
    return w * h
`)
	ip, _ := newPathInterp(t, dir)
	if err := ip.Execute("import shapes", "test"); err != nil {
		t.Fatalf("import: %v", err)
	}
	wantInt(t, mustEval(t, ip, "shapes.area(3, 4)"), 12)
	wantStr(t, mustEval(t, ip, "shapes.version"), "1.0")
}

func Test_Import_FunctionsShadowVariables(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "m.bloa", `label = "variable"
function label():
    return "function"
`)
	ip, _ := newPathInterp(t, dir)
	if err := ip.Execute("import m", "test"); err != nil {
		t.Fatalf("import: %v", err)
	}
	wantStr(t, mustEval(t, ip, "m.label()"), "function")
}

func Test_Import_ExecutesOnceAndCaches(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "noisy.bloa", `say "loaded"`)
	ip, out := newPathInterp(t, dir)

	if err := ip.Execute("import noisy\nimport noisy", "test"); err != nil {
		t.Fatalf("import: %v", err)
	}
	if out.String() != "loaded\n" {
		t.Fatalf("module executed more than once: %q", out.String())
	}

	first, err := ip.ImportModule("noisy")
	if err != nil {
		t.Fatalf("ImportModule: %v", err)
	}
	second, _ := ip.ImportModule("noisy")
	if first != second {
		t.Fatal("cache returned distinct proxies")
	}
}

func Test_Import_UnsetSearchPathIsDistinctError(t *testing.T) {
	var out bytes.Buffer
	ip := New(Options{Stdout: &out, Stderr: &out, Stdin: strings.NewReader("")})
	ip.ModulePath = ""

	err := ip.Execute("import shapes", "test")
	var me *ModuleError
	if !errors.As(err, &me) {
		t.Fatalf("want *ModuleError, got %T: %v", err, err)
	}
	if !strings.Contains(me.Msg, "search path is not configured") {
		t.Fatalf("message %q", me.Msg)
	}
}

func Test_Import_NotFoundNamesThePath(t *testing.T) {
	dir := t.TempDir()
	ip, _ := newPathInterp(t, dir)
	err := ip.Execute("import ghost", "test")
	var me *ModuleError
	if !errors.As(err, &me) {
		t.Fatalf("want *ModuleError, got %T: %v", err, err)
	}
	if me.Module != "ghost" || !strings.Contains(me.Msg, "not found") {
		t.Fatalf("%#v", me)
	}
}

func Test_Import_FallbackExtension(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "short.bl", `x = 1`)
	ip, _ := newPathInterp(t, dir)
	if err := ip.Execute("import short", "test"); err != nil {
		t.Fatalf("import: %v", err)
	}
	wantInt(t, mustEval(t, ip, "short.x"), 1)
}

func Test_Import_SiblingCallsResolveInModuleRegistry(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "m.bloa", `function helper():
    return "module"
function api():
    return helper()
`)
	ip, _ := newPathInterp(t, dir)
	src := `function helper():
    return "main"

import m
`
	if err := ip.Execute(src, "test"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	wantStr(t, mustEval(t, ip, "m.api()"), "module")
	wantStr(t, mustEval(t, ip, "helper()"), "main")
}

func Test_Import_CycleIsReported(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.bloa", "import b")
	writeModule(t, dir, "b.bloa", "import a")
	ip, _ := newPathInterp(t, dir)

	err := ip.Execute("import a", "test")
	var me *ModuleError
	if !errors.As(err, &me) {
		t.Fatalf("want *ModuleError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "import cycle") || !strings.Contains(err.Error(), "->") {
		t.Fatalf("cycle report: %v", err)
	}
}

func Test_Import_FailureIsNotCached(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "flaky.bloa", "say missing_name")
	ip, _ := newPathInterp(t, dir)

	if err := ip.Execute("import flaky", "test"); err == nil {
		t.Fatal("expected first import to fail")
	}

	writeModule(t, dir, "flaky.bloa", "x = 1")
	if err := ip.Execute("import flaky", "test"); err != nil {
		t.Fatalf("repaired module still failing: %v", err)
	}
	wantInt(t, mustEval(t, ip, "flaky.x"), 1)
}

func Test_Import_ParseFailureBecomesModuleError(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "broken.bloa", "say 1\n        say 2")
	ip, _ := newPathInterp(t, dir)

	err := ip.Execute("import broken", "test")
	var me *ModuleError
	if !errors.As(err, &me) || !strings.Contains(me.Msg, "parse failed") {
		t.Fatalf("got %T: %v", err, err)
	}
}

func Test_Import_ModuleSeesBuiltins(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "sizes.bloa", `function width(s):
    return len(s)
`)
	ip, _ := newPathInterp(t, dir)
	if err := ip.Execute("import sizes", "test"); err != nil {
		t.Fatalf("import: %v", err)
	}
	wantInt(t, mustEval(t, ip, `sizes.width("abcd")`), 4)
}

func Test_Import_NativeModulesNeedNoSearchPath(t *testing.T) {
	var out bytes.Buffer
	ip := New(Options{Stdout: &out, Stderr: &out, Stdin: strings.NewReader("")})
	ip.ModulePath = ""
	if err := ip.Execute("import math", "test"); err != nil {
		t.Fatalf("native import: %v", err)
	}
	wantInt(t, mustEval(t, ip, "math.add(2, 3)"), 5)
}
