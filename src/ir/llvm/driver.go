package llvm

import (
	"tinygo.org/x/go-llvm"

	ast "vslc/src/ir"
)

// Options configures a Build invocation.
type Options struct {
	// ModuleName is the name given to the emitted llvm.Module.
	ModuleName string
	// Variant selects an overlay of specialized Proc/Prog definitions, or
	// nil to emit the generic IR unchanged (§4.6).
	Variant *ast.Variant
	// Verbose dumps the finished module's textual IR to stderr.
	Verbose bool
}

// Build is the Driver (§4.7): it constructs a fresh llvm.Module, emits the
// runtime prelude and every reachable Proc/Prog starting from the module
// entry point, stamps the host target's data layout and triple onto the
// module, and returns it. It does not write bitcode or an object file —
// that is the concern of an outer tool that consumes the returned module.
func Build(ir *ast.CompilerIR, opt Options) (llvm.Module, error) {
	ctx := llvm.NewContext()
	mod := ctx.NewModule(opt.ModuleName)

	e := NewEmitter(ctx, mod, ir, opt.Variant)

	if _, err := e.emitScope(nil); err != nil {
		mod.Dispose()
		return llvm.Module{}, err
	}

	if err := stampTarget(mod); err != nil {
		mod.Dispose()
		return llvm.Module{}, err
	}

	if opt.Verbose {
		mod.Dump()
	}

	return mod, nil
}

// stampTarget sets the module's data layout and target triple to the
// compiling host's native target, the way vslc's genTargetTriple falls back
// to llvm.DefaultTargetTriple() when no cross-compilation target was
// requested — Braid's backend has no CLI surface for cross-compiling.
func stampTarget(mod llvm.Module) error {
	llvm.InitializeNativeTarget()
	llvm.InitializeNativeAsmPrinter()

	triple := llvm.DefaultTargetTriple()
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return err
	}

	tm := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelNone, llvm.RelocDefault, llvm.CodeModelDefault)
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()

	mod.SetDataLayout(td.String())
	mod.SetTarget(tm.Triple())
	return nil
}
