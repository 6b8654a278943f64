package ir

import "testing"

// TestDecodeLiteralMain verifies that a minimal CompilerIR document decoding
// `main() = 1 + 2` produces the expected node shape and scope id handling.
func TestDecodeLiteralMain(t *testing.T) {
	doc := []byte(`{
		"main": {
			"free": [], "bound": [], "persist": [], "children": [],
			"params": [],
			"body": {
				"kind": "root", "id": 0,
				"child": {
					"kind": "binary", "id": 1, "op": "+",
					"left":  {"kind": "lit_int", "id": 2, "value": 1},
					"right": {"kind": "lit_int", "id": 3, "value": 2}
				}
			}
		},
		"procs": {},
		"progs": {},
		"type_table": {
			"1": {"type": {"kind": "int"}},
			"2": {"type": {"kind": "int"}},
			"3": {"type": {"kind": "int"}}
		},
		"defuse": {},
		"externs": {},
		"names": {}
	}`)

	out, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode returned error: %s", err)
	}
	if out.Main == nil {
		t.Fatal("expected Main to be non-nil")
	}
	if out.Main.ID != nil {
		t.Fatalf("expected Main.ID to be nil, got %v", *out.Main.ID)
	}

	root, ok := out.Main.Body.(*Root)
	if !ok {
		t.Fatalf("expected Main.Body to be *Root, got %T", out.Main.Body)
	}
	bin, ok := root.Child.(*Binary)
	if !ok {
		t.Fatalf("expected root child to be *Binary, got %T", root.Child)
	}
	if bin.Op != "+" {
		t.Errorf("expected op %q, got %q", "+", bin.Op)
	}
	left, ok := bin.Left.(*LitInt)
	if !ok || left.Value != 1 {
		t.Errorf("expected left operand LitInt(1), got %#v", bin.Left)
	}
	right, ok := bin.Right.(*LitInt)
	if !ok || right.Value != 2 {
		t.Errorf("expected right operand LitInt(2), got %#v", bin.Right)
	}

	if _, ok := out.TypeTable[1].Type.(Int); !ok {
		t.Errorf("expected type_table[1] to be Int, got %#v", out.TypeTable[1].Type)
	}
}

// TestDecodeProcIDAssignment verifies that decoding assigns each Proc's ID
// from its map key rather than leaving it nil.
func TestDecodeProcIDAssignment(t *testing.T) {
	doc := []byte(`{
		"main": {"free": [], "bound": [], "persist": [], "children": [7], "params": [],
			"body": {"kind": "lit_int", "id": 0, "value": 0}},
		"procs": {
			"7": {"free": [], "bound": [], "persist": [], "children": [], "params": [],
				"body": {"kind": "lit_int", "id": 1, "value": 42}}
		},
		"progs": {},
		"type_table": {},
		"defuse": {},
		"externs": {},
		"names": {}
	}`)

	out, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode returned error: %s", err)
	}
	p, ok := out.Procs[7]
	if !ok {
		t.Fatal("expected proc 7 to be present")
	}
	if p.ID == nil || *p.ID != 7 {
		t.Errorf("expected proc ID 7, got %v", p.ID)
	}
}

// TestDecodeFunType verifies nested Fun/Code type decoding.
func TestDecodeFunType(t *testing.T) {
	raw := []byte(`{"kind": "fun", "params": [{"kind": "int"}, {"kind": "float"}], "ret": {"kind": "code", "inner": {"kind": "int"}}}`)
	typ, err := decodeType(raw)
	if err != nil {
		t.Fatalf("decodeType returned error: %s", err)
	}
	fn, ok := typ.(Fun)
	if !ok {
		t.Fatalf("expected Fun, got %#v", typ)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if _, ok := fn.Params[0].(Int); !ok {
		t.Errorf("expected param 0 to be Int, got %#v", fn.Params[0])
	}
	if _, ok := fn.Params[1].(Float); !ok {
		t.Errorf("expected param 1 to be Float, got %#v", fn.Params[1])
	}
	code, ok := fn.Ret.(Code)
	if !ok {
		t.Fatalf("expected return type Code, got %#v", fn.Ret)
	}
	if _, ok := code.Inner.(Int); !ok {
		t.Errorf("expected Code.Inner to be Int, got %#v", code.Inner)
	}
}

// TestDecodeUnknownNodeKind verifies an unrecognized node kind fails
// decoding rather than silently producing a nil node.
func TestDecodeUnknownNodeKind(t *testing.T) {
	_, err := decodeNode([]byte(`{"kind": "not_a_real_kind", "id": 0}`))
	if err == nil {
		t.Fatal("expected an error for an unknown node kind")
	}
}
