package llvm

import (
	"tinygo.org/x/go-llvm"

	ast "vslc/src/ir"
)

// emitExpr is the syntax-directed expression compiler (§4.4): a single type
// switch over the closed ast.Node sum, so an unhandled kind is a missing
// `case`, not a silent no-op.
func (e *Emitter) emitExpr(n ast.Node) (llvm.Value, error) {
	switch v := n.(type) {
	case *ast.Root:
		if !e.preludeDone {
			if err := e.emitPrelude(); err != nil {
				return llvm.Value{}, err
			}
			e.preludeDone = true
		}
		return e.emitExpr(v.Child)

	case *ast.LitInt:
		return llvm.ConstInt(i32, uint64(uint32(v.Value)), true), nil

	case *ast.LitFloat:
		return llvm.ConstFloat(f64, v.Value), nil

	case *ast.LitString:
		return e.emitStringLiteral(v.Value), nil

	case *ast.Sequence:
		return e.emitSequence(v)

	case *ast.Let:
		return e.emitLet(v)

	case *ast.Assign:
		return e.emitAssign(v)

	case *ast.Lookup:
		return e.emitLookup(v.Use)

	case *ast.Unary:
		return e.emitUnary(v)

	case *ast.Binary:
		return e.emitBinary(v)

	case *ast.Quote:
		return e.emitClosureRef(v.Scope)

	case *ast.FunRef:
		return e.emitClosureRef(v.Scope)

	case *ast.Call:
		return e.emitCall(v)

	case *ast.Run:
		return e.emitRun(v)

	case *ast.ExternRef:
		defID, ok := e.IR.Defuse[v.Use]
		if !ok {
			return llvm.Value{}, &UnknownVariableError{ID: v.Use}
		}
		return e.emitExternClosure(defID)

	case *ast.PersistRef:
		return llvm.Value{}, &PersistNotImplementedError{}

	case *ast.Escape:
		return llvm.Value{}, &NotImplementedError{Feature: "escape"}

	case *ast.If:
		return llvm.Value{}, &NotImplementedError{Feature: "if"}

	case *ast.While:
		return llvm.Value{}, &NotImplementedError{Feature: "while"}

	case *ast.MacroCall:
		return llvm.Value{}, &NotImplementedError{Feature: "macrocall"}

	case *ast.Alloc:
		return llvm.Value{}, &NotImplementedError{Feature: "alloc"}

	case *ast.Tuple:
		return llvm.Value{}, &NotImplementedError{Feature: "tuple"}

	case *ast.TupleIndex:
		return llvm.Value{}, &NotImplementedError{Feature: "tuple_index"}

	case *ast.TypeAlias:
		return llvm.Value{}, &NotImplementedError{Feature: "type_alias"}

	default:
		return llvm.Value{}, &UnsupportedNodeError{Node: n}
	}
}

// isPure reports whether n is free of observable side effects, so Sequence
// may elide emitting it (§4.4 Sequence).
func isPure(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.LitInt, *ast.LitFloat, *ast.LitString, *ast.Lookup, *ast.Quote, *ast.FunRef:
		return true
	case *ast.Unary:
		return isPure(v.Operand)
	case *ast.Binary:
		return isPure(v.Left) && isPure(v.Right)
	default:
		return false
	}
}

func (e *Emitter) emitSequence(n *ast.Sequence) (llvm.Value, error) {
	if !isPure(n.Lhs) {
		if _, err := e.emitExpr(n.Lhs); err != nil {
			return llvm.Value{}, err
		}
	}
	return e.emitExpr(n.Rhs)
}

// emitLet stores the evaluated right-hand side into the alloca the scope
// compiler already allocated for the bound id (§4.4 Let).
func (e *Emitter) emitLet(n *ast.Let) (llvm.Value, error) {
	val, err := e.emitExpr(n.Value)
	if err != nil {
		return llvm.Value{}, err
	}
	alloc, ok := e.NamedValues[n.Var]
	if !ok {
		return llvm.Value{}, &UnknownVariableError{ID: n.Var}
	}
	e.Builder.CreateStore(val, alloc)
	return val, nil
}

// emitAssign resolves the use-site id through Defuse; assigning to an extern
// binding fails with NotImplemented since externs are read-only here
// (§4.4 Assign).
func (e *Emitter) emitAssign(n *ast.Assign) (llvm.Value, error) {
	defID, ok := e.IR.Defuse[n.Var]
	if !ok {
		return llvm.Value{}, &UnknownVariableError{ID: n.Var}
	}
	if _, ok := e.IR.Externs[defID]; ok {
		return llvm.Value{}, &NotImplementedError{Feature: "extern assignment"}
	}

	val, err := e.emitExpr(n.Value)
	if err != nil {
		return llvm.Value{}, err
	}
	alloc, ok := e.NamedValues[defID]
	if !ok {
		return llvm.Value{}, &UnknownVariableError{ID: defID}
	}
	e.Builder.CreateStore(val, alloc)
	return val, nil
}

// emitLookup resolves a use-site id through Defuse and loads the named
// value; a definition resolving to an extern binding instead yields a
// closure over that extern's wrapper, the same value a direct Call to it
// would unpack (§4.4 Lookup).
func (e *Emitter) emitLookup(use int) (llvm.Value, error) {
	defID, ok := e.IR.Defuse[use]
	if !ok {
		return llvm.Value{}, &UnknownVariableError{ID: use}
	}
	if _, ok := e.IR.Externs[defID]; ok {
		return e.emitExternClosure(defID)
	}
	alloc, ok := e.NamedValues[defID]
	if !ok {
		return llvm.Value{}, &UnknownVariableError{ID: defID}
	}
	return e.Builder.CreateLoad(alloc, ""), nil
}

// emitExternClosure packs a closure over defID's `_wrapper` symbol with zero
// captures: externs never close over anything, so the environment struct is
// empty, but the resulting value shares the same `{fn_ptr, i8*}` shape every
// other callable in the module has (§4.2, §4.4 "Extern lookup").
func (e *Emitter) emitExternClosure(defID int) (llvm.Value, error) {
	name, ok := e.IR.Externs[defID]
	if !ok {
		return llvm.Value{}, &UnknownVariableError{ID: defID}
	}
	wrapper := e.Mod.NamedFunction(name + "_wrapper")
	if wrapper.IsNil() {
		return llvm.Value{}, &UnknownVariableError{ID: defID}
	}
	return e.packClosure(wrapper, nil)
}

// emitUnary implements the unary `-` operator on Int and Float operands
// (§4.4 Unary, §8).
func (e *Emitter) emitUnary(n *ast.Unary) (llvm.Value, error) {
	operand, err := e.emitExpr(n.Operand)
	if err != nil {
		return llvm.Value{}, err
	}

	switch n.Op {
	case "-":
		switch operand.Type() {
		case i32:
			return e.Builder.CreateSub(llvm.ConstInt(i32, 0, true), operand, ""), nil
		case f64:
			return e.Builder.CreateFNeg(operand, ""), nil
		default:
			return llvm.Value{}, &IncompatibleOperandError{Op: n.Op}
		}
	default:
		return llvm.Value{}, &UnknownUnaryOpError{Op: n.Op}
	}
}

// emitBinary implements `+` and `*`, promoting an Int operand to Float via
// sitofp whenever the other operand is Float (§4.4 Binary, §8).
func (e *Emitter) emitBinary(n *ast.Binary) (llvm.Value, error) {
	if n.Op != "+" && n.Op != "*" {
		return llvm.Value{}, &UnknownBinaryOpError{Op: n.Op}
	}

	lhs, err := e.emitExpr(n.Left)
	if err != nil {
		return llvm.Value{}, err
	}
	rhs, err := e.emitExpr(n.Right)
	if err != nil {
		return llvm.Value{}, err
	}

	lInt, lFlt := lhs.Type() == i32, lhs.Type() == f64
	rInt, rFlt := rhs.Type() == i32, rhs.Type() == f64
	if !(lInt || lFlt) || !(rInt || rFlt) {
		return llvm.Value{}, &IncompatibleOperandsError{Op: n.Op}
	}

	if lInt && rInt {
		if n.Op == "+" {
			return e.Builder.CreateAdd(lhs, rhs, ""), nil
		}
		return e.Builder.CreateMul(lhs, rhs, ""), nil
	}

	if lInt {
		lhs = e.Builder.CreateSIToFP(lhs, f64, "")
	}
	if rInt {
		rhs = e.Builder.CreateSIToFP(rhs, f64, "")
	}
	if n.Op == "+" {
		return e.Builder.CreateFAdd(lhs, rhs, ""), nil
	}
	return e.Builder.CreateFMul(lhs, rhs, ""), nil
}

// emitClosureRef emits (if not already emitted) the target scope and packs a
// closure over it capturing its free variables, shared by Quote and FunRef
// nodes (§4.4 Quote, Fun).
func (e *Emitter) emitClosureRef(scopeID int) (llvm.Value, error) {
	fn, err := e.emitScope(&scopeID)
	if err != nil {
		return llvm.Value{}, err
	}
	ids, err := e.currentFreeIDsOf(scopeID)
	if err != nil {
		return llvm.Value{}, err
	}
	return e.packClosure(fn, ids)
}

// emitCall unpacks the callee closure and calls fn(args…, env) (§4.4 Call).
func (e *Emitter) emitCall(n *ast.Call) (llvm.Value, error) {
	closure, err := e.emitExpr(n.Callee)
	if err != nil {
		return llvm.Value{}, err
	}
	fn, env := e.unpackClosure(closure)

	args := make([]llvm.Value, 0, len(n.Args)+1)
	for _, a := range n.Args {
		av, err := e.emitExpr(a)
		if err != nil {
			return llvm.Value{}, err
		}
		args = append(args, av)
	}
	args = append(args, env)

	return e.Builder.CreateCall(fn, args, ""), nil
}

// emitRun unpacks a Code closure and calls fn(env) — a Call with zero user
// arguments (§4.4 Run).
func (e *Emitter) emitRun(n *ast.Run) (llvm.Value, error) {
	closure, err := e.emitExpr(n.Code)
	if err != nil {
		return llvm.Value{}, err
	}
	fn, env := e.unpackClosure(closure)
	return e.Builder.CreateCall(fn, []llvm.Value{env}, ""), nil
}

// emitStringLiteral emits a dead global constant byte array for a string
// literal (§4.4 Literal, §9 "String literals"); no runtime string operation
// consumes it.
func (e *Emitter) emitStringLiteral(s string) llvm.Value {
	return e.Builder.CreateGlobalStringPtr(s, stringGlobalName())
}
