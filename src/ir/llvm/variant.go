package llvm

import (
	"fmt"

	ast "vslc/src/ir"
)

// resolved is the outcome of resolving a scope id to the Proc/Prog that must
// actually be emitted for it — generic IR or the active variant's overlay.
type resolved struct {
	id           *int
	name         string // fixed by id alone; never changed by variant selection.
	isProg       bool
	common       *ast.ScopeCommon
	params       []int // Proc only.
	ownedPersist []int // Prog only.
}

// freeIDs returns the ordered free-variable ids to capture when packing a
// closure or unpacking an environment for this scope: `free` for a Proc,
// `owned_persist ++ free` for a Prog (§3, §4.3 step 3).
func (r resolved) freeIDs() []int {
	if !r.isProg {
		return r.common.Free
	}
	ids := make([]int, 0, len(r.ownedPersist)+len(r.common.Free))
	ids = append(ids, r.ownedPersist...)
	ids = append(ids, r.common.Free...)
	return ids
}

// resolve is the Specialization Resolver (§4.6): a pure lookup, never
// mutating the IR. It is consulted when deciding which Proc/Prog definition
// to materialize for a scope id, but the resulting symbol name is always
// derived from the id alone — the resolver never renames a quote/fun
// reference's target.
func (e *Emitter) resolve(id *int) (resolved, error) {
	if id == nil {
		if e.IR.Main == nil {
			return resolved{}, &UnknownScopeError{}
		}
		return resolved{
			id:     nil,
			name:   "main",
			common: &e.IR.Main.ScopeCommon,
			params: e.IR.Main.Params,
		}, nil
	}

	n := *id
	if e.Variant != nil {
		if p, ok := e.Variant.Procs[n]; ok {
			return resolved{id: id, name: fmt.Sprintf("proc%d", n), common: &p.ScopeCommon, params: p.Params}, nil
		}
	}
	if p, ok := e.IR.Procs[n]; ok {
		return resolved{id: id, name: fmt.Sprintf("proc%d", n), common: &p.ScopeCommon, params: p.Params}, nil
	}
	if e.Variant != nil {
		if pr, ok := e.Variant.Progs[n]; ok {
			return resolved{id: id, name: fmt.Sprintf("prog%d", n), isProg: true, common: &pr.ScopeCommon, ownedPersist: pr.OwnedPersist}, nil
		}
	}
	if pr, ok := e.IR.Progs[n]; ok {
		return resolved{id: id, name: fmt.Sprintf("prog%d", n), isProg: true, common: &pr.ScopeCommon, ownedPersist: pr.OwnedPersist}, nil
	}

	idCopy := n
	return resolved{}, &UnknownScopeError{ID: &idCopy}
}
