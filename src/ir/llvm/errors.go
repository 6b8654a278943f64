package llvm

import (
	"fmt"

	ast "vslc/src/ir"
)

// UnsupportedTypeError reports a source Type outside {Int, Float, Fun, Code}
// reaching Type Lowering (§4.1, §7).
type UnsupportedTypeError struct {
	Type ast.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type reached lowering: %T", e.Type)
}

// UnsupportedNodeError reports an AST node kind the expression compiler does
// not recognize at all (§7). This differs from NotImplementedError, which
// covers kinds the compiler recognizes but has not yet implemented.
type UnsupportedNodeError struct {
	Node ast.Node
}

func (e *UnsupportedNodeError) Error() string {
	return fmt.Sprintf("unsupported AST node kind: %T", e.Node)
}

// NotImplementedError reports a recognized but unimplemented feature: extern
// assignment, if/while, macro calls, escape, tuples, alloc, type aliases
// (§7, §9). Persists use PersistNotImplementedError instead.
type NotImplementedError struct {
	Feature string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented: %s", e.Feature)
}

// PersistNotImplementedError reports a scope whose persist list is
// non-empty — cross-stage persisted values are recognized by §3's layout but
// not yet lowered (§7, §9). Distinct from the generic NotImplementedError so
// callers can discriminate this one case with errors.As.
type PersistNotImplementedError struct{}

func (e *PersistNotImplementedError) Error() string {
	return "not implemented: persist"
}

// UnknownVariableError reports a use with no alloca recorded in named_values
// (§7).
type UnknownVariableError struct {
	ID int
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable: no alloca recorded for id %d", e.ID)
}

// UnknownScopeError reports a scope id missing from both the variant overlay
// and the base IR (§7).
type UnknownScopeError struct {
	ID *int
}

func (e *UnknownScopeError) Error() string {
	if e.ID == nil {
		return "unknown scope: no entry proc in compiler IR"
	}
	return fmt.Sprintf("unknown scope: id %d missing from variant and base IR", *e.ID)
}

// IncompatibleOperandError reports a unary operator applied to a
// non-numeric operand (§7).
type IncompatibleOperandError struct {
	Op string
}

func (e *IncompatibleOperandError) Error() string {
	return fmt.Sprintf("incompatible operand for unary operator %q", e.Op)
}

// IncompatibleOperandsError reports a binary operator applied to operands
// that aren't both numeric (§7).
type IncompatibleOperandsError struct {
	Op string
}

func (e *IncompatibleOperandsError) Error() string {
	return fmt.Sprintf("incompatible operands for binary operator %q", e.Op)
}

// UnknownUnaryOpError reports a unary operator symbol outside the supported
// set (§7).
type UnknownUnaryOpError struct {
	Op string
}

func (e *UnknownUnaryOpError) Error() string {
	return fmt.Sprintf("unknown unary operator %q", e.Op)
}

// UnknownBinaryOpError reports a binary operator symbol outside the supported
// set (§7).
type UnknownBinaryOpError struct {
	Op string
}

func (e *UnknownBinaryOpError) Error() string {
	return fmt.Sprintf("unknown binary operator %q", e.Op)
}
