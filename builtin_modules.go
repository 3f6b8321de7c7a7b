// builtin_modules.go
//
// Registry of the bundled native modules reachable through `import`.
// Each builder produces a fully populated *Module; builders run at most
// once per interpreter because loadModule caches the result.
package bloa

// nativeModules maps a module name to its builder. Names here shadow any
// same-named file on the search path.
var nativeModules = map[string]func(*Interpreter) *Module{
	"io":     buildIOModule,
	"math":   buildMathModule,
	"random": buildRandomModule,
	"time":   buildTimeModule,
	"net":    buildNetModule,
}

func newNativeModule(name string) *Module {
	return &Module{Name: name, Env: NewEnv(nil), Funcs: map[string]*Fun{}}
}

// fn registers a native function on the module under the given name.
func (m *Module) fn(name string, params []string, variadic bool, impl NativeImpl) {
	m.Funcs[name] = &Fun{
		Kind:     FunNative,
		Name:     m.Name + "." + name,
		Params:   params,
		Variadic: variadic,
		Impl:     impl,
	}
}

// constant registers a top-level variable on the module. Lookup through
// Module.Get tries functions first, so constants must not collide with a
// function name.
func (m *Module) constant(name string, v Value) {
	m.Env.Define(name, v)
}

/* ===========================
   ARGUMENT HELPERS
   =========================== */

func argStr(fun string, args []Value, i int) (string, error) {
	if args[i].Tag != VTStr {
		return "", &TypeMismatchError{Msg: fun + " needs a string, got " + tagName(args[i].Tag)}
	}
	return args[i].Data.(string), nil
}

func argInt(fun string, args []Value, i int) (int64, error) {
	if args[i].Tag != VTInt {
		return 0, &TypeMismatchError{Msg: fun + " needs an integer, got " + tagName(args[i].Tag)}
	}
	return args[i].Data.(int64), nil
}

// argFloat accepts either numeric tag and widens to float64.
func argFloat(fun string, args []Value, i int) (float64, error) {
	switch args[i].Tag {
	case VTInt:
		return float64(args[i].Data.(int64)), nil
	case VTNum:
		return args[i].Data.(float64), nil
	}
	return 0, &TypeMismatchError{Msg: fun + " needs a number, got " + tagName(args[i].Tag)}
}

func argList(fun string, args []Value, i int) (*ListObject, error) {
	if args[i].Tag != VTList {
		return nil, &TypeMismatchError{Msg: fun + " needs a list, got " + tagName(args[i].Tag)}
	}
	return args[i].Data.(*ListObject), nil
}
