// env.go — lexical environments (the scope chain).
//
// An Env is a name→value frame with a parent link. Lookups walk parent-ward
// from the innermost frame; the chain root is the interpreter's Core frame
// holding the builtin allowlist. Every compound construct that introduces a
// body — an if/else branch, each loop iteration, a function call, a
// try/except branch, a module's top level — runs in a freshly created child
// frame. For a function call the new frame's parent is the function's
// *captured defining env*, never the caller's; that is exactly what gives
// closures definition-time scope semantics.
//
// Write semantics: Define always binds in the frame it is called on.
// Assign updates the nearest existing binding anywhere up the chain and only
// defines in the current frame when the name is unbound everywhere — so a
// loop body's `x = x + 1` mutates the `x` the program already had, while a
// genuinely new name stays local to its branch.
package bloa

// Env is a lexical environment frame with a parent link.
type Env struct {
	parent *Env
	table  map[string]Value
	sealed bool // Core is sealed: Assign never lands here through the chain
}

// NewEnv creates a new frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Seal marks the frame read-only for chain writes. Lookups still succeed;
// Assign calls that would land here define in the caller's frame instead.
func (e *Env) Seal() { e.sealed = true }

// Define binds name to v in this frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) { e.table[name] = v }

// Get retrieves the nearest visible binding for name, walking parent-ward.
func (e *Env) Get(name string) (Value, error) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[name]; ok {
			return v, nil
		}
	}
	return None, &UndefinedNameError{Name: name}
}

// Has reports whether name is bound anywhere in the chain.
func (e *Env) Has(name string) bool {
	for f := e; f != nil; f = f.parent {
		if _, ok := f.table[name]; ok {
			return true
		}
	}
	return false
}

// Assign updates the nearest existing binding of name, or defines it in this
// frame when no unsealed frame binds it.
func (e *Env) Assign(name string, v Value) {
	for f := e; f != nil; f = f.parent {
		if f.sealed {
			break
		}
		if _, ok := f.table[name]; ok {
			f.table[name] = v
			return
		}
	}
	e.table[name] = v
}

// Visible snapshots every binding reachable from this frame, innermost
// shadowing outermost. Embedders use it to inspect interpreter state;
// execution itself resolves names through Get so it always sees live state.
func (e *Env) Visible() map[string]Value {
	all := map[string]Value{}
	var collect func(*Env)
	collect = func(f *Env) {
		if f == nil {
			return
		}
		collect(f.parent)
		for k, v := range f.table {
			all[k] = v
		}
	}
	collect(e)
	return all
}
