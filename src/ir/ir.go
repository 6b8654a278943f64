// Package ir defines the CompilerIR data model the backend consumes: source
// types, Proc/Prog scopes, the specialization overlay, and the typed AST node
// kinds the expression compiler dispatches over. Everything here is a
// read-only input contract — the parser and type checker that produce these
// values live outside this module.
package ir

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Type is the tagged sum of source types reaching the backend. Only Int,
// Float, Fun and Code are lowered; the remaining cases exist so an
// ill-typed-for-this-backend IR fails explicitly with UnsupportedType rather
// than being silently misread.
type Type interface {
	isType()
}

// Int is a 32-bit signed integer.
type Int struct{}

// Float is an IEEE 754 double.
type Float struct{}

// Fun is a first-class function type.
type Fun struct {
	Params []Type
	Ret    Type
}

// Code is the type of a quoted expression ("staged" code).
type Code struct {
	Inner Type
}

// Any is the dynamic/untyped escape hatch. Unsupported by this backend.
type Any struct{}

// Void carries no value. Unsupported by this backend.
type Void struct{}

// Parameterized is an unapplied type variable, e.g. the 'a in a generic
// definition. Unsupported by this backend.
type Parameterized struct {
	Name string
}

// Instance is a type constructor applied to an argument, e.g. Array<Int>.
// Unsupported by this backend.
type Instance struct {
	Cons Type
	Arg  Type
}

func (Int) isType()           {}
func (Float) isType()         {}
func (Fun) isType()           {}
func (Code) isType()          {}
func (Any) isType()           {}
func (Void) isType()          {}
func (Parameterized) isType() {}
func (Instance) isType()      {}

func (t Fun) String() string {
	return fmt.Sprintf("Fun(%v) -> %v", t.Params, t.Ret)
}

func (t Code) String() string {
	return fmt.Sprintf("Code(%v)", t.Inner)
}

// ScopeCommon holds the fields shared by every Proc and Prog (§3 Scope).
type ScopeCommon struct {
	ID       *int // nil only for the module entry Proc ("main").
	Body     Node
	Free     []int // ids captured from enclosing scopes, in closure-environment order.
	Bound    []int // ids of local variables introduced inside this scope.
	Persist  []int // cross-stage persisted values; must currently be empty.
	Children []int // child scope ids that must be emitted before this scope's body.
}

// Proc is a first-class function definition.
type Proc struct {
	ScopeCommon
	Params []int // ordered value-parameter ids.
}

// Prog is a quoted block of code — a staged program fragment.
type Prog struct {
	ScopeCommon
	OwnedPersist []int // persisted values this quote owns.
}

// Variant is an optional overlay mapping scope ids to replacement Proc/Prog
// definitions. At most one Variant is active in an Emitter at a time.
type Variant struct {
	Procs map[int]*Proc
	Progs map[int]*Prog
}

// TypeTableEntry is the (Type, _) pair the IR associates with an AST node id.
// The second element of the pair is left unspecified by the contract; Aux
// carries it through opaquely since the backend never inspects it.
type TypeTableEntry struct {
	Type Type
	Aux  interface{}
}

// CompilerIR is the read-only input to the backend (§3, §6.1).
type CompilerIR struct {
	Procs     map[int]*Proc
	Progs     map[int]*Prog
	Main      *Proc
	TypeTable map[int]TypeTableEntry
	Defuse    map[int]int    // use-site id -> definition-site id.
	Externs   map[int]string // definition id -> extern symbol name.
	Names     map[int]string // optional: id -> human-readable name, for alloca naming (§6.4).
}

// NameOf returns the human-readable name recorded for id, or "" if none was
// supplied by the front end.
func (c *CompilerIR) NameOf(id int) string {
	if c.Names == nil {
		return ""
	}
	return c.Names[id]
}
