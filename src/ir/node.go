package ir

// Node is the tagged sum of AST node kinds the expression compiler dispatches
// over (§4.4). It is a closed, interface-sealed sum rather than a bare kind
// enum plus payload: a type switch over the concrete cases surfaces an
// unhandled kind as a compile-time hole in the switch, not a runtime lookup
// into a dispatch table (§9 "Dynamic visitor dispatch").
type Node interface {
	NodeID() int
}

// LitInt is an integer literal.
type LitInt struct {
	ID    int
	Value int32
}

// LitFloat is a floating point literal.
type LitFloat struct {
	ID    int
	Value float64
}

// LitString is a string literal. Lowered to a dead global constant byte
// array; no runtime string operations are supported (§9).
type LitString struct {
	ID    int
	Value string
}

// Sequence is `lhs; rhs`.
type Sequence struct {
	ID       int
	Lhs, Rhs Node
}

// Let is `let x = e`, introducing a new binding for the bound id Var.
type Let struct {
	ID    int
	Var   int // bound-set id; alloca already allocated by the scope compiler.
	Value Node
}

// Assign is `x := e`. Var is a use-site id resolved through Defuse; the
// definition may be any in-scope variable, including one declared in an
// enclosing scope via Free.
type Assign struct {
	ID    int
	Var   int
	Value Node
}

// Lookup is a bare identifier reference. Use is a use-site id resolved
// through Defuse.
type Lookup struct {
	ID  int
	Use int
}

// Unary is a prefix unary expression, e.g. `-e`.
type Unary struct {
	ID      int
	Op      string
	Operand Node
}

// Binary is an infix binary expression, e.g. `a + b`.
type Binary struct {
	ID          int
	Op          string
	Left, Right Node
}

// Quote is `<e>`, referencing an already-lifted Prog by scope id.
type Quote struct {
	ID    int
	Scope int
}

// FunRef is a reference to a named function or lambda, lifted to a Proc by
// scope id (a λ-expression or a bare function name used as a value).
type FunRef struct {
	ID    int
	Scope int
}

// Call is `f(a1, ..., an)`.
type Call struct {
	ID     int
	Callee Node
	Args   []Node
}

// Run is `!e`, invoking a Code closure with zero user arguments.
type Run struct {
	ID   int
	Code Node
}

// ExternRef is a direct reference to an extern binding. It lowers to a
// zero-capture closure over the extern's `_wrapper`, in any position, not
// only as a Call's callee (§4.4).
type ExternRef struct {
	ID  int
	Use int
}

// PersistRef is a reference to a cross-stage persisted value. Recognized but
// NotImplemented (§9).
type PersistRef struct {
	ID  int
	Use int
}

// Escape is a stage-escape expression. Recognized but NotImplemented.
type Escape struct {
	ID    int
	Inner Node
}

// If is a conditional. Recognized but NotImplemented.
type If struct {
	ID               int
	Cond, Then, Else Node
}

// While is a loop. Recognized but NotImplemented.
type While struct {
	ID         int
	Cond, Body Node
}

// MacroCall is a macro invocation. Recognized but NotImplemented.
type MacroCall struct {
	ID   int
	Name string
	Args []Node
}

// Alloc is a heap/array allocation. Recognized but NotImplemented.
type Alloc struct {
	ID    int
	Elem  Type
	Count Node
}

// Tuple is a tuple construction. Recognized but NotImplemented.
type Tuple struct {
	ID    int
	Elems []Node
}

// TupleIndex projects an element out of a tuple. Recognized but
// NotImplemented.
type TupleIndex struct {
	ID    int
	Tuple Node
	Index int
}

// TypeAlias introduces a local type alias. Recognized but NotImplemented.
type TypeAlias struct {
	ID      int
	Name    string
	Aliased Type
}

// Root wraps the top of a Proc/Prog body: emitting it triggers the runtime
// prelude exactly once before the wrapped expression (§4.4 Root).
type Root struct {
	ID    int
	Child Node
}

func (n *LitInt) NodeID() int     { return n.ID }
func (n *LitFloat) NodeID() int   { return n.ID }
func (n *LitString) NodeID() int  { return n.ID }
func (n *Sequence) NodeID() int   { return n.ID }
func (n *Let) NodeID() int        { return n.ID }
func (n *Assign) NodeID() int     { return n.ID }
func (n *Lookup) NodeID() int     { return n.ID }
func (n *Unary) NodeID() int      { return n.ID }
func (n *Binary) NodeID() int     { return n.ID }
func (n *Quote) NodeID() int      { return n.ID }
func (n *FunRef) NodeID() int     { return n.ID }
func (n *Call) NodeID() int       { return n.ID }
func (n *Run) NodeID() int        { return n.ID }
func (n *ExternRef) NodeID() int  { return n.ID }
func (n *PersistRef) NodeID() int { return n.ID }
func (n *Escape) NodeID() int     { return n.ID }
func (n *If) NodeID() int         { return n.ID }
func (n *While) NodeID() int      { return n.ID }
func (n *MacroCall) NodeID() int  { return n.ID }
func (n *Alloc) NodeID() int      { return n.ID }
func (n *Tuple) NodeID() int      { return n.ID }
func (n *TupleIndex) NodeID() int { return n.ID }
func (n *TypeAlias) NodeID() int  { return n.ID }
func (n *Root) NodeID() int       { return n.ID }
