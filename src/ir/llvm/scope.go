package llvm

import (
	"tinygo.org/x/go-llvm"
)

// emitScope emits the LLVM function for the scope id (nil for the module
// entry Proc), recursively emitting every child scope first, and returns the
// already- or newly-emitted function (§4.3).
func (e *Emitter) emitScope(id *int) (llvm.Value, error) {
	key := scopeCacheKey(id)
	if fn, ok := e.emitted[key]; ok {
		return fn, nil
	}

	sc, err := e.resolve(id)
	if err != nil {
		return llvm.Value{}, err
	}

	if len(sc.common.Persist) > 0 {
		return llvm.Value{}, &PersistNotImplementedError{}
	}

	// Step 4: recursively emit every child before this scope's body, so a
	// quote/fun node inside the body finds its target already in the module.
	for _, cid := range sc.common.Children {
		cid := cid
		if _, err := e.emitScope(&cid); err != nil {
			return llvm.Value{}, err
		}
	}

	argIDs := sc.params
	freeIDs := sc.freeIDs()

	bodyType, err := e.typeOf(sc.common.Body)
	if err != nil {
		return llvm.Value{}, err
	}
	retT, err := lower(bodyType)
	if err != nil {
		return llvm.Value{}, err
	}

	paramTs := make([]llvm.Type, 0, len(argIDs)+1)
	for _, pid := range argIDs {
		pt, err := e.typeOfID(pid)
		if err != nil {
			return llvm.Value{}, err
		}
		lt, err := lower(pt)
		if err != nil {
			return llvm.Value{}, err
		}
		paramTs = append(paramTs, lt)
	}
	paramTs = append(paramTs, i8p)

	fnType := llvm.FunctionType(retT, paramTs, false)
	fn := llvm.AddFunction(e.Mod, sc.name, fnType)
	// Register before the body is emitted so a self-referencing quote/fun
	// inside this scope's own body can find it.
	e.emitted[key] = fn

	restore := e.enterScope()
	defer restore()

	bb := llvm.AddBasicBlock(fn, "entry")
	e.Builder.SetInsertPointAtEnd(bb)

	if err := e.bindParams(fn, argIDs); err != nil {
		return llvm.Value{}, err
	}
	if err := e.unpackEnvironment(fn.Param(len(argIDs)), freeIDs); err != nil {
		return llvm.Value{}, err
	}
	if err := e.allocateLocals(sc.common.Bound); err != nil {
		return llvm.Value{}, err
	}

	val, err := e.emitExpr(sc.common.Body)
	if err != nil {
		return llvm.Value{}, err
	}
	e.Builder.CreateRet(val)

	return fn, nil
}

// bindParams allocates stack storage for each value parameter, stores the
// incoming argument, and records the alloca in named_values (§4.3 step 7).
func (e *Emitter) bindParams(fn llvm.Value, argIDs []int) error {
	for i1, pid := range argIDs {
		p := fn.Param(i1)
		alloc := e.Builder.CreateAlloca(p.Type(), e.allocaName(pid))
		e.Builder.CreateStore(p, alloc)
		e.NamedValues[pid] = alloc
	}
	return nil
}

// unpackEnvironment bitcasts the trailing i8* parameter to a pointer to the
// environment struct type, then for each free id loads field i and copies it
// into a local alloca (§4.3 step 8). A Prog/Proc with no free variables still
// receives the env pointer, but leaves it unused: no bitcast is emitted.
func (e *Emitter) unpackEnvironment(envParam llvm.Value, freeIDs []int) error {
	if len(freeIDs) == 0 {
		return nil
	}

	envT, err := e.envStructType(freeIDs)
	if err != nil {
		return err
	}
	envPtr := e.Builder.CreateBitCast(envParam, llvm.PointerType(envT, 0), "")

	for i1, fid := range freeIDs {
		fieldPtr := e.Builder.CreateStructGEP(envPtr, i1, "")
		val := e.Builder.CreateLoad(fieldPtr, "")
		alloc := e.Builder.CreateAlloca(val.Type(), e.allocaName(fid))
		e.Builder.CreateStore(val, alloc)
		e.NamedValues[fid] = alloc
	}
	return nil
}

// allocateLocals allocates (but does not initialize) stack storage for every
// id introduced inside this scope's body by a Let node (§4.3 step 9).
func (e *Emitter) allocateLocals(bound []int) error {
	for _, bid := range bound {
		t, err := e.typeOfID(bid)
		if err != nil {
			return err
		}
		lt, err := lower(t)
		if err != nil {
			return err
		}
		e.NamedValues[bid] = e.Builder.CreateAlloca(lt, e.allocaName(bid))
	}
	return nil
}

// currentFreeIDsOf resolves a scope id's ordered free-variable list, used by
// the expression compiler when packing closures for quote/fun nodes.
func (e *Emitter) currentFreeIDsOf(id int) ([]int, error) {
	idc := id
	sc, err := e.resolve(&idc)
	if err != nil {
		return nil, err
	}
	return sc.freeIDs(), nil
}
