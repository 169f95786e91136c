package syntax

// Binding is what a placeholder resolved to during matching: either one
// subtree or an ordered sequence of subtrees (ellipsis placeholders).
// Bound subtrees are shared by reference, never copied; the same binding
// printed twice lifts the same original text both times.
type Binding struct {
	Single Node
	Seq    []Node
	IsSeq  bool
}

// BindNode wraps a single subtree binding.
func BindNode(n Node) Binding {
	return Binding{Single: n}
}

// BindSeq wraps an ordered sequence binding. A zero-length sequence is a
// valid binding.
func BindSeq(nodes []Node) Binding {
	return Binding{Seq: nodes, IsSeq: true}
}

// Env is the insertion-ordered placeholder environment of one match.
// The matcher builds it once; substitution only reads it.
type Env struct {
	names  []string
	byName map[string]Binding
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{byName: make(map[string]Binding)}
}

// Bind records a binding. Re-binding an existing name overwrites the value
// but keeps its original position in the insertion order.
func (e *Env) Bind(name string, b Binding) {
	if _, ok := e.byName[name]; !ok {
		e.names = append(e.names, name)
	}
	e.byName[name] = b
}

// Clone returns an independent copy. The matcher clones at backtracking
// choice points; bindings themselves stay shared.
func (e *Env) Clone() *Env {
	c := NewEnv()
	c.names = append(c.names, e.names...)
	for k, v := range e.byName {
		c.byName[k] = v
	}
	return c
}

// Lookup returns the binding for name.
func (e *Env) Lookup(name string) (Binding, bool) {
	b, ok := e.byName[name]
	return b, ok
}

// Names returns the placeholder names in insertion order.
func (e *Env) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Len returns the number of bound placeholders.
func (e *Env) Len() int { return len(e.names) }
