package llvm

import (
	"testing"

	"tinygo.org/x/go-llvm"

	ast "vslc/src/ir"
)

func emptyIREmitter() (*Emitter, func()) {
	e, done := newTestEmitter(emptyTestIR(), nil)
	// emitExpr needs an active builder/basic block for instructions that
	// aren't pure constants; emulate what emitScope sets up.
	restore := e.enterScope()
	fn := llvm.AddFunction(e.Mod, "test", llvm.FunctionType(llvm.VoidType(), nil, false))
	bb := llvm.AddBasicBlock(fn, "entry")
	e.Builder.SetInsertPointAtEnd(bb)
	return e, func() { restore(); done() }
}

// TestEmitLiteralInt verifies an integer literal lowers to a constant i32.
func TestEmitLiteralInt(t *testing.T) {
	e, done := emptyIREmitter()
	defer done()

	v, err := e.emitExpr(&ast.LitInt{ID: 0, Value: 7})
	if err != nil {
		t.Fatalf("emitExpr returned error: %s", err)
	}
	if v.Type() != i32 {
		t.Errorf("expected i32 literal, got type %v", v.Type())
	}
}

// TestEmitLiteralFloat verifies a float literal lowers to a constant double.
func TestEmitLiteralFloat(t *testing.T) {
	e, done := emptyIREmitter()
	defer done()

	v, err := e.emitExpr(&ast.LitFloat{ID: 0, Value: 3.5})
	if err != nil {
		t.Fatalf("emitExpr returned error: %s", err)
	}
	if v.Type() != f64 {
		t.Errorf("expected f64 literal, got type %v", v.Type())
	}
}

// TestEmitBinaryIntAddition verifies `1 + 2` lowers to an integer add.
func TestEmitBinaryIntAddition(t *testing.T) {
	e, done := emptyIREmitter()
	defer done()

	n := &ast.Binary{ID: 0, Op: "+",
		Left:  &ast.LitInt{ID: 1, Value: 1},
		Right: &ast.LitInt{ID: 2, Value: 2},
	}
	v, err := e.emitExpr(n)
	if err != nil {
		t.Fatalf("emitExpr returned error: %s", err)
	}
	if v.Type() != i32 {
		t.Errorf("expected i32 result, got type %v", v.Type())
	}
}

// TestEmitBinaryMixedPromotesToFloat verifies an Int operand mixed with a
// Float operand promotes the Int side via sitofp before the float op
// (§4.4 Binary).
func TestEmitBinaryMixedPromotesToFloat(t *testing.T) {
	e, done := emptyIREmitter()
	defer done()

	n := &ast.Binary{ID: 0, Op: "*",
		Left:  &ast.LitInt{ID: 1, Value: 2},
		Right: &ast.LitFloat{ID: 2, Value: 1.5},
	}
	v, err := e.emitExpr(n)
	if err != nil {
		t.Fatalf("emitExpr returned error: %s", err)
	}
	if v.Type() != f64 {
		t.Errorf("expected f64 result after promotion, got type %v", v.Type())
	}
}

// TestEmitUnaryIncompatibleOperand verifies unary `-` on a non-numeric
// operand fails with IncompatibleOperandError rather than panicking (§7).
func TestEmitUnaryIncompatibleOperand(t *testing.T) {
	e, done := emptyIREmitter()
	defer done()

	_, err := e.emitUnary(&ast.Unary{ID: 1, Op: "-", Operand: &ast.LitString{ID: 2, Value: "y"}})
	if err == nil {
		t.Fatal("expected an error for unary minus on a string operand")
	}
	if _, ok := err.(*IncompatibleOperandError); !ok {
		t.Errorf("expected IncompatibleOperandError, got %T", err)
	}
}

// TestUnknownBinaryOp verifies an operator symbol outside {+, *} fails with
// UnknownBinaryOpError (§7).
func TestUnknownBinaryOp(t *testing.T) {
	e, done := emptyIREmitter()
	defer done()

	_, err := e.emitExpr(&ast.Binary{ID: 0, Op: "%", Left: &ast.LitInt{ID: 1, Value: 1}, Right: &ast.LitInt{ID: 2, Value: 1}})
	if err == nil {
		t.Fatal("expected an error for an unknown binary operator")
	}
	if _, ok := err.(*UnknownBinaryOpError); !ok {
		t.Errorf("expected UnknownBinaryOpError, got %T", err)
	}
}

// TestIsPureSkipsSideEffectFreeNodes verifies the Sequence purity filter
// recognizes literals, lookups, quote/fun references and operators over pure
// operands as pure, and anything else (e.g. a Call) as impure (§4.4 Sequence).
func TestIsPureSkipsSideEffectFreeNodes(t *testing.T) {
	pureCases := []ast.Node{
		&ast.LitInt{ID: 0, Value: 1},
		&ast.Lookup{ID: 1, Use: 0},
		&ast.Quote{ID: 2, Scope: 0},
		&ast.FunRef{ID: 3, Scope: 0},
		&ast.Unary{ID: 4, Op: "-", Operand: &ast.LitInt{ID: 5, Value: 1}},
	}
	for _, n := range pureCases {
		if !isPure(n) {
			t.Errorf("expected %T to be pure", n)
		}
	}

	if isPure(&ast.Call{ID: 0, Callee: &ast.Lookup{ID: 1, Use: 2}}) {
		t.Error("expected a Call to be impure")
	}
}

// TestEmitNotImplementedNodes verifies every recognized-but-unimplemented
// node kind fails with NotImplementedError, not a panic or silent zero value
// (§7, §9).
func TestEmitNotImplementedNodes(t *testing.T) {
	e, done := emptyIREmitter()
	defer done()

	cases := []ast.Node{
		&ast.Escape{ID: 0, Inner: &ast.LitInt{ID: 1, Value: 1}},
		&ast.If{ID: 0},
		&ast.While{ID: 0},
		&ast.MacroCall{ID: 0, Name: "m"},
		&ast.Alloc{ID: 0, Elem: ast.Int{}},
		&ast.Tuple{ID: 0},
		&ast.TupleIndex{ID: 0},
		&ast.TypeAlias{ID: 0, Name: "t"},
	}
	for _, n := range cases {
		_, err := e.emitExpr(n)
		if err == nil {
			t.Errorf("expected an error emitting %T", n)
			continue
		}
		if _, ok := err.(*NotImplementedError); !ok {
			t.Errorf("expected NotImplementedError for %T, got %T", n, err)
		}
	}
}

// TestEmitPersistRefIsDedicatedError verifies PersistRef fails with the
// dedicated PersistNotImplementedError rather than the generic
// NotImplementedError, so callers can discriminate this one case (§7, §9).
func TestEmitPersistRefIsDedicatedError(t *testing.T) {
	e, done := emptyIREmitter()
	defer done()

	_, err := e.emitExpr(&ast.PersistRef{ID: 0, Use: 1})
	if err == nil {
		t.Fatal("expected an error emitting PersistRef")
	}
	if _, ok := err.(*PersistNotImplementedError); !ok {
		t.Errorf("expected PersistNotImplementedError, got %T", err)
	}
}
