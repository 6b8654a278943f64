package llvm

import (
	"testing"

	"tinygo.org/x/go-llvm"

	ast "vslc/src/ir"
)

func newTestEmitter(ir *ast.CompilerIR, variant *ast.Variant) (*Emitter, func()) {
	ctx := llvm.NewContext()
	mod := ctx.NewModule("test")
	e := NewEmitter(ctx, mod, ir, variant)
	return e, func() {
		mod.Dispose()
		ctx.Dispose()
	}
}

// TestResolveMain verifies resolving the nil scope id always returns the
// module entry Proc by name "main", regardless of an active variant (§4.6).
func TestResolveMain(t *testing.T) {
	main := &ast.Proc{ScopeCommon: ast.ScopeCommon{Body: &ast.LitInt{ID: 0, Value: 0}}}
	ir := &ast.CompilerIR{Main: main}
	e, done := newTestEmitter(ir, nil)
	defer done()

	r, err := e.resolve(nil)
	if err != nil {
		t.Fatalf("resolve(nil) returned error: %s", err)
	}
	if r.name != "main" {
		t.Errorf("expected name %q, got %q", "main", r.name)
	}
	if r.isProg {
		t.Error("expected main to not be a Prog")
	}
}

// TestResolveVariantOverlaysGenericProc verifies a variant's Proc definition
// is preferred over the base IR's, but the emitted symbol name still derives
// from the id alone, not the variant (§4.6 "never renames").
func TestResolveVariantOverlaysGenericProc(t *testing.T) {
	id := 3
	generic := &ast.Proc{ScopeCommon: ast.ScopeCommon{ID: &id, Body: &ast.LitInt{ID: 0, Value: 1}}}
	overlay := &ast.Proc{ScopeCommon: ast.ScopeCommon{ID: &id, Body: &ast.LitInt{ID: 0, Value: 2}}}

	ir := &ast.CompilerIR{Procs: map[int]*ast.Proc{3: generic}}
	variant := &ast.Variant{Procs: map[int]*ast.Proc{3: overlay}}
	e, done := newTestEmitter(ir, variant)
	defer done()

	r, err := e.resolve(&id)
	if err != nil {
		t.Fatalf("resolve returned error: %s", err)
	}
	if r.name != "proc3" {
		t.Errorf("expected name %q, got %q", "proc3", r.name)
	}
	if r.common != &overlay.ScopeCommon {
		t.Error("expected the variant's definition to be selected, not the generic one")
	}
}

// TestResolveFallsBackToGenericProg verifies a scope id absent from the
// variant overlay falls back to the base IR's Prog definition (§4.6).
func TestResolveFallsBackToGenericProg(t *testing.T) {
	id := 5
	prog := &ast.Prog{ScopeCommon: ast.ScopeCommon{ID: &id, Body: &ast.LitInt{ID: 0, Value: 9}}}
	ir := &ast.CompilerIR{Progs: map[int]*ast.Prog{5: prog}}
	variant := &ast.Variant{}
	e, done := newTestEmitter(ir, variant)
	defer done()

	r, err := e.resolve(&id)
	if err != nil {
		t.Fatalf("resolve returned error: %s", err)
	}
	if !r.isProg {
		t.Error("expected a Prog to be resolved")
	}
	if r.name != "prog5" {
		t.Errorf("expected name %q, got %q", "prog5", r.name)
	}
}

// TestResolveUnknownScope verifies a scope id present in neither overlay nor
// base IR fails with UnknownScopeError (§7).
func TestResolveUnknownScope(t *testing.T) {
	id := 99
	ir := &ast.CompilerIR{}
	e, done := newTestEmitter(ir, nil)
	defer done()

	_, err := e.resolve(&id)
	if err == nil {
		t.Fatal("expected an error resolving an unknown scope id")
	}
	if _, ok := err.(*UnknownScopeError); !ok {
		t.Errorf("expected UnknownScopeError, got %T", err)
	}
}

// TestFreeIDsOrdering verifies a Prog's free-variable order is
// owned_persist ++ free (§3, §4.3 step 3).
func TestFreeIDsOrdering(t *testing.T) {
	r := resolved{
		isProg:       true,
		common:       &ast.ScopeCommon{Free: []int{10, 11}},
		ownedPersist: []int{1, 2},
	}
	got := r.freeIDs()
	want := []int{1, 2, 10, 11}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i1 := range want {
		if got[i1] != want[i1] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
