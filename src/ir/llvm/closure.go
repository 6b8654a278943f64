package llvm

import (
	"tinygo.org/x/go-llvm"
)

// envStructType builds the packed environment struct type for an ordered list
// of free-variable ids: `owned_persist ++ free` for a Prog, `free` for a Proc
// (§3, §4.5 step 1).
func (e *Emitter) envStructType(ids []int) (llvm.Type, error) {
	elems := make([]llvm.Type, 0, len(ids))
	for _, id := range ids {
		t, err := e.typeOfID(id)
		if err != nil {
			return llvm.Type{}, err
		}
		lt, err := lower(t)
		if err != nil {
			return llvm.Type{}, err
		}
		elems = append(elems, lt)
	}
	return llvm.StructType(elems, true), nil
}

// packClosure builds a closure value over fn, capturing the given free ids
// (in order) from the emitter's current scope (§4.5 Pack).
//
//  1. Compute the environment struct type.
//  2. Build the struct value by loading each free variable's current alloca
//     and inserting it at its index.
//  3. Allocate the struct on the stack, store the built value, bitcast the
//     pointer to i8*.
//  4. Build the closure struct {fn_ptr, i8*}.
func (e *Emitter) packClosure(fn llvm.Value, ids []int) (llvm.Value, error) {
	envT, err := e.envStructType(ids)
	if err != nil {
		return llvm.Value{}, err
	}

	envVal := llvm.Undef(envT)
	for i1, id := range ids {
		alloc, ok := e.NamedValues[id]
		if !ok {
			return llvm.Value{}, &UnknownVariableError{ID: id}
		}
		v := e.Builder.CreateLoad(alloc, "")
		envVal = e.Builder.CreateInsertValue(envVal, v, i1, "")
	}

	envSlot := e.Builder.CreateAlloca(envT, "")
	e.Builder.CreateStore(envVal, envSlot)
	envPtr := e.Builder.CreateBitCast(envSlot, i8p, "")

	closT := llvm.StructType([]llvm.Type{fn.Type(), i8p}, true)
	clos := llvm.Undef(closT)
	clos = e.Builder.CreateInsertValue(clos, fn, 0, "")
	clos = e.Builder.CreateInsertValue(clos, envPtr, 1, "")
	return clos, nil
}

// unpackClosure extracts (fn_ptr, env_ptr) from a closure value (§4.5
// Unpack). The closure value is stored to a fresh alloca rather than
// extracted in place, so a GEP on a stable address sidesteps needing the
// aggregate to stay addressable across basic blocks — later mem2reg passes
// fold the roundtrip away (§4.5 "Why stack-allocate and re-alloca").
func (e *Emitter) unpackClosure(clos llvm.Value) (fn, env llvm.Value) {
	slot := e.Builder.CreateAlloca(clos.Type(), "")
	e.Builder.CreateStore(clos, slot)

	fnSlot := e.Builder.CreateStructGEP(slot, 0, "")
	fn = e.Builder.CreateLoad(fnSlot, "")

	envSlot := e.Builder.CreateStructGEP(slot, 1, "")
	env = e.Builder.CreateLoad(envSlot, "")
	return fn, env
}
