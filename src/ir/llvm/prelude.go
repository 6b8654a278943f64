package llvm

import (
	"github.com/google/uuid"
	"tinygo.org/x/go-llvm"
)

// externSig describes one fixed runtime entry point from the Braid runtime
// ABI (§6.2): its C symbol, parameter types, and return type.
type externSig struct {
	name   string
	params []llvm.Type
	ret    llvm.Type
}

// runtimeExterns is the fixed table of ten extern C functions every module
// declares (§4.2, §6.2) — the WebGL/mesh-rendering runtime Braid links
// against. Declared as a function rather than a package var so it runs after
// i32/f64/i8p are initialized.
func runtimeExterns() []externSig {
	voidT := llvm.VoidType()
	return []externSig{
		{name: "mesh_indices", params: []llvm.Type{i8p}, ret: i32},
		{name: "mesh_positions", params: []llvm.Type{i8p}, ret: i32},
		{name: "mesh_normals", params: []llvm.Type{i8p}, ret: i32},
		{name: "get_shader", params: []llvm.Type{i8p, i8p}, ret: i32},
		{name: "draw_mesh", params: []llvm.Type{i32, i32}, ret: voidT},
		{name: "print_mesh", params: []llvm.Type{i8p}, ret: voidT},
		{name: "gl_buffer", params: []llvm.Type{i32, i8p, i8p}, ret: i32},
		{name: "detect_error", params: nil, ret: voidT},
		{name: "load_obj", params: []llvm.Type{i8p, i8p}, ret: i8p},
		{name: "create_window", params: nil, ret: i8p},
	}
}

// emitPrelude declares every runtime extern and a closure-ABI wrapper around
// each, run exactly once per module the first time a Root node is reached
// (§4.2). The wrapper is what quote/fun-free user code actually calls:
// the extern itself keeps its native C signature and is never called
// directly.
func (e *Emitter) emitPrelude() error {
	for _, sig := range runtimeExterns() {
		fnT := llvm.FunctionType(sig.ret, sig.params, false)
		real := llvm.AddFunction(e.Mod, sig.name, fnT)
		real.SetLinkage(llvm.ExternalLinkage)

		if err := e.emitWrapper(sig, real); err != nil {
			return err
		}
	}
	return nil
}

// emitWrapper builds `<name>_wrapper`, sharing the module's uniform
// `(args…, env) -> ret` calling convention, so a closure captured over an
// extern looks exactly like a closure over a Proc (§4.2 "Wrapper").
// The trailing environment parameter is accepted and ignored — externs
// never capture.
func (e *Emitter) emitWrapper(sig externSig, real llvm.Value) error {
	wrapperParams := make([]llvm.Type, 0, len(sig.params)+1)
	wrapperParams = append(wrapperParams, sig.params...)
	wrapperParams = append(wrapperParams, i8p)

	fnT := llvm.FunctionType(sig.ret, wrapperParams, false)
	wrapper := llvm.AddFunction(e.Mod, sig.name+"_wrapper", fnT)

	restore := e.enterScope()
	defer restore()

	bb := llvm.AddBasicBlock(wrapper, "entry")
	e.Builder.SetInsertPointAtEnd(bb)

	forwarded := make([]llvm.Value, len(sig.params))
	for i1 := range sig.params {
		forwarded[i1] = wrapper.Param(i1)
	}

	call := e.Builder.CreateCall(real, forwarded, "")
	if sig.ret == llvm.VoidType() {
		e.Builder.CreateRetVoid()
	} else {
		e.Builder.CreateRet(call)
	}
	return nil
}

// stringGlobalName derives a collision-free global symbol for a string
// literal constant, the way vslc's own temp-naming mints a fresh label per
// emitted global rather than threading a counter through every call site.
func stringGlobalName() string {
	return "str." + uuid.NewString()
}
