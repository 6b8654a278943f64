package llvm

import ast "vslc/src/ir"

// emptyTestIR returns a minimal CompilerIR suitable for tests that only
// exercise prelude emission or standalone expression compilation.
func emptyTestIR() *ast.CompilerIR {
	return &ast.CompilerIR{TypeTable: map[int]ast.TypeTableEntry{}}
}
