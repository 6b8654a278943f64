// Package llvm lowers a Braid CompilerIR into an LLVM Module. It implements
// the closure-conversion ABI, scope compiler, expression compiler and
// specialization resolver described by the backend design: every callable in
// the emitted module — ordinary Procs, quoted Progs, and extern runtime
// functions — shares one calling convention, (args…, env) -> ret.
package llvm

import (
	"tinygo.org/x/go-llvm"

	ast "vslc/src/ir"
)

// Emitter holds the mutable LLVM construction state for one codegen run
// (§3 "LLVM Emitter state"). It owns exactly one active builder at a time and
// never runs more than one goroutine — codegen here is a single synchronous
// traversal (§5).
type Emitter struct {
	Mod         llvm.Module
	Ctx         llvm.Context
	Builder     llvm.Builder
	NamedValues map[int]llvm.Value // definition id -> alloca, scope-local.
	Variant     *ast.Variant        // active specialization overlay, if any.
	IR          *ast.CompilerIR

	emitted     map[int]llvm.Value // scope cache key -> already-emitted LLVM function.
	preludeDone bool
}

// scopeCacheKey maps a scope id to the emitted-function cache key; nil
// (the entry Proc) is reserved the key -1, since 0 is itself a valid scope id.
func scopeCacheKey(id *int) int {
	if id == nil {
		return -1
	}
	return *id
}

// NewEmitter constructs an Emitter with empty named_values and no active
// variant, matching the Driver's construction step (§4.7).
func NewEmitter(ctx llvm.Context, mod llvm.Module, ir *ast.CompilerIR, variant *ast.Variant) *Emitter {
	return &Emitter{
		Mod:         mod,
		Ctx:         ctx,
		NamedValues: make(map[int]llvm.Value),
		Variant:     variant,
		IR:          ir,
		emitted:     make(map[int]llvm.Value),
	}
}

// enterScope is the scoped acquisition primitive §5/§9 calls for: it saves
// the current builder and named_values, installs a fresh builder and an
// empty named_values for a new scope, and returns a restore closure that
// disposes the fresh builder and reinstates the saved state. Callers must
// invoke the returned closure with defer so both success and error-return
// paths restore correctly.
func (e *Emitter) enterScope() func() {
	savedBuilder := e.Builder
	savedValues := e.NamedValues

	e.Builder = e.Ctx.NewBuilder()
	e.NamedValues = make(map[int]llvm.Value)

	return func() {
		e.Builder.Dispose()
		e.Builder = savedBuilder
		e.NamedValues = savedValues
	}
}

// typeOfID looks up the Type recorded for an AST node id in the shared
// type_table (§3). Variable declaration sites, call/quote/fun sites and
// expression nodes are all keyed the same way.
func (e *Emitter) typeOfID(id int) (ast.Type, error) {
	entry, ok := e.IR.TypeTable[id]
	if !ok {
		return nil, &UnknownVariableError{ID: id}
	}
	return entry.Type, nil
}

// typeOf is typeOfID for a Node's own id.
func (e *Emitter) typeOf(n ast.Node) (ast.Type, error) {
	return e.typeOfID(n.NodeID())
}

// allocaName returns the human-readable name recorded for id, for alloca
// naming (§6.4); LLVM auto-numbers unnamed values, so "" is a valid fallback.
func (e *Emitter) allocaName(id int) string {
	return e.IR.NameOf(id)
}
