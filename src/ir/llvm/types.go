package llvm

import (
	"tinygo.org/x/go-llvm"

	ast "vslc/src/ir"
)

// i32, f64 and i8p are the fixed lowerings for Int, Float and every
// environment/closure pointer in the module (§4.1). Declared once at package
// scope the way vslc declares its own `i`/`f` globals for VSL's int/float
// lowering.
var (
	i32 = llvm.Int32Type()
	f64 = llvm.DoubleType()
	i8p = llvm.PointerType(llvm.Int8Type(), 0)
)

// lower maps a source ir.Type to its LLVM representation (§4.1). Any type
// outside {Int, Float, Fun, Code} fails with UnsupportedType.
func lower(t ast.Type) (llvm.Type, error) {
	switch v := t.(type) {
	case ast.Int:
		return i32, nil
	case ast.Float:
		return f64, nil
	case ast.Fun:
		return closureType(v.Params, v.Ret)
	case ast.Code:
		return closureType(nil, v.Inner)
	default:
		return llvm.Type{}, &UnsupportedTypeError{Type: t}
	}
}

// closureType builds the packed `{ fn_ptr, i8* }` struct shared by Fun and
// Code. fn_ptr's pointee function type always appends a trailing i8*
// environment parameter, regardless of whether the source arity is zero
// (Code) or N (Fun) — every callable in the module shares this one calling
// convention (§4.2, §4.5).
func closureType(params []ast.Type, ret ast.Type) (llvm.Type, error) {
	retT, err := lower(ret)
	if err != nil {
		return llvm.Type{}, err
	}

	paramTs := make([]llvm.Type, 0, len(params)+1)
	for _, p := range params {
		pt, err := lower(p)
		if err != nil {
			return llvm.Type{}, err
		}
		paramTs = append(paramTs, pt)
	}
	paramTs = append(paramTs, i8p)

	fnT := llvm.PointerType(llvm.FunctionType(retT, paramTs, false), 0)
	return llvm.StructType([]llvm.Type{fnT, i8p}, true), nil
}
