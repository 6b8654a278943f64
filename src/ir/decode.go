package ir

import (
	"encoding/json"
	"fmt"
)

// Decode reads a CompilerIR from its JSON wire representation. The parser and
// type checker that produce a CompilerIR live outside this module (§1); JSON
// is the hand-off format between that external producer and this backend's
// driver binary (§6.1).
func Decode(data []byte) (*CompilerIR, error) {
	var wire struct {
		Main      procWire                  `json:"main"`
		Procs     map[string]procWire       `json:"procs"`
		Progs     map[string]progWire       `json:"progs"`
		TypeTable map[string]typeTableEntry `json:"type_table"`
		Defuse    map[string]int            `json:"defuse"`
		Externs   map[string]string         `json:"externs"`
		Names     map[string]string         `json:"names"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode compiler IR: %w", err)
	}

	main, err := wire.Main.decode()
	if err != nil {
		return nil, fmt.Errorf("decode main proc: %w", err)
	}

	out := &CompilerIR{
		Procs:     make(map[int]*Proc, len(wire.Procs)),
		Progs:     make(map[int]*Prog, len(wire.Progs)),
		Main:      main,
		TypeTable: make(map[int]TypeTableEntry, len(wire.TypeTable)),
		Defuse:    make(map[int]int, len(wire.Defuse)),
		Externs:   make(map[int]string, len(wire.Externs)),
		Names:     make(map[int]string, len(wire.Names)),
	}

	for k, v := range wire.Procs {
		id, err := atoiKey(k)
		if err != nil {
			return nil, err
		}
		p, err := v.decode()
		if err != nil {
			return nil, fmt.Errorf("decode proc %d: %w", id, err)
		}
		p.ID = &id
		out.Procs[id] = p
	}
	for k, v := range wire.Progs {
		id, err := atoiKey(k)
		if err != nil {
			return nil, err
		}
		p, err := v.decode()
		if err != nil {
			return nil, fmt.Errorf("decode prog %d: %w", id, err)
		}
		p.ID = &id
		out.Progs[id] = p
	}
	for k, v := range wire.TypeTable {
		id, err := atoiKey(k)
		if err != nil {
			return nil, err
		}
		t, err := decodeType(v.Type)
		if err != nil {
			return nil, fmt.Errorf("decode type_table[%d]: %w", id, err)
		}
		out.TypeTable[id] = TypeTableEntry{Type: t, Aux: v.Aux}
	}
	for k, v := range wire.Defuse {
		id, err := atoiKey(k)
		if err != nil {
			return nil, err
		}
		out.Defuse[id] = v
	}
	for k, v := range wire.Externs {
		id, err := atoiKey(k)
		if err != nil {
			return nil, err
		}
		out.Externs[id] = v
	}
	for k, v := range wire.Names {
		id, err := atoiKey(k)
		if err != nil {
			return nil, err
		}
		out.Names[id] = v
	}

	return out, nil
}

func atoiKey(k string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(k, "%d", &n); err != nil {
		return 0, fmt.Errorf("expected integer id key, got %q: %w", k, err)
	}
	return n, nil
}

// ------------------------------
// ----- scope wire structs -----
// ------------------------------

type scopeCommonWire struct {
	Free     []int           `json:"free"`
	Bound    []int           `json:"bound"`
	Persist  []int           `json:"persist"`
	Children []int           `json:"children"`
	Body     json.RawMessage `json:"body"`
}

func (s scopeCommonWire) decode() (ScopeCommon, error) {
	body, err := decodeNode(s.Body)
	if err != nil {
		return ScopeCommon{}, fmt.Errorf("decode body: %w", err)
	}
	return ScopeCommon{
		Body:     body,
		Free:     s.Free,
		Bound:    s.Bound,
		Persist:  s.Persist,
		Children: s.Children,
	}, nil
}

type procWire struct {
	scopeCommonWire
	Params []int `json:"params"`
}

func (p procWire) decode() (*Proc, error) {
	common, err := p.scopeCommonWire.decode()
	if err != nil {
		return nil, err
	}
	return &Proc{ScopeCommon: common, Params: p.Params}, nil
}

type progWire struct {
	scopeCommonWire
	OwnedPersist []int `json:"owned_persist"`
}

func (p progWire) decode() (*Prog, error) {
	common, err := p.scopeCommonWire.decode()
	if err != nil {
		return nil, err
	}
	return &Prog{ScopeCommon: common, OwnedPersist: p.OwnedPersist}, nil
}

type typeTableEntry struct {
	Type json.RawMessage `json:"type"`
	Aux  interface{}      `json:"aux"`
}

// -----------------------------
// ----- type wire decoding -----
// -----------------------------

type typeWire struct {
	Kind   string          `json:"kind"`
	Name   string          `json:"name,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Ret    json.RawMessage `json:"ret,omitempty"`
	Inner  json.RawMessage `json:"inner,omitempty"`
	Cons   json.RawMessage `json:"cons,omitempty"`
	Arg    json.RawMessage `json:"arg,omitempty"`
}

func decodeType(raw json.RawMessage) (Type, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("missing type")
	}
	var w typeWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode type: %w", err)
	}
	switch w.Kind {
	case "int":
		return Int{}, nil
	case "float":
		return Float{}, nil
	case "fun":
		var rawParams []json.RawMessage
		if len(w.Params) > 0 {
			if err := json.Unmarshal(w.Params, &rawParams); err != nil {
				return nil, fmt.Errorf("decode fun params: %w", err)
			}
		}
		params := make([]Type, 0, len(rawParams))
		for i1, rp := range rawParams {
			pt, err := decodeType(rp)
			if err != nil {
				return nil, fmt.Errorf("decode fun param %d: %w", i1, err)
			}
			params = append(params, pt)
		}
		ret, err := decodeType(w.Ret)
		if err != nil {
			return nil, fmt.Errorf("decode fun ret: %w", err)
		}
		return Fun{Params: params, Ret: ret}, nil
	case "code":
		inner, err := decodeType(w.Inner)
		if err != nil {
			return nil, fmt.Errorf("decode code inner: %w", err)
		}
		return Code{Inner: inner}, nil
	case "any":
		return Any{}, nil
	case "void":
		return Void{}, nil
	case "parameterized":
		return Parameterized{Name: w.Name}, nil
	case "instance":
		cons, err := decodeType(w.Cons)
		if err != nil {
			return nil, fmt.Errorf("decode instance cons: %w", err)
		}
		arg, err := decodeType(w.Arg)
		if err != nil {
			return nil, fmt.Errorf("decode instance arg: %w", err)
		}
		return Instance{Cons: cons, Arg: arg}, nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", w.Kind)
	}
}

// -----------------------------
// ----- node wire decoding -----
// -----------------------------

type nodeWire struct {
	Kind   string            `json:"kind"`
	ID     int               `json:"id"`
	Value  json.RawMessage   `json:"value,omitempty"`
	Var    int               `json:"var,omitempty"`
	Use    int               `json:"use,omitempty"`
	Op     string            `json:"op,omitempty"`
	Lhs    json.RawMessage   `json:"lhs,omitempty"`
	Rhs    json.RawMessage   `json:"rhs,omitempty"`
	Operand json.RawMessage  `json:"operand,omitempty"`
	Left   json.RawMessage   `json:"left,omitempty"`
	Right  json.RawMessage   `json:"right,omitempty"`
	Scope  int               `json:"scope,omitempty"`
	Callee json.RawMessage   `json:"callee,omitempty"`
	Args   []json.RawMessage `json:"args,omitempty"`
	Code   json.RawMessage   `json:"code,omitempty"`
	Inner  json.RawMessage   `json:"inner,omitempty"`
	Cond   json.RawMessage   `json:"cond,omitempty"`
	Then   json.RawMessage   `json:"then,omitempty"`
	Else   json.RawMessage   `json:"else,omitempty"`
	Body   json.RawMessage   `json:"body,omitempty"`
	Name   string            `json:"name,omitempty"`
	Elem   json.RawMessage   `json:"elem,omitempty"`
	Count  json.RawMessage   `json:"count,omitempty"`
	Elems  []json.RawMessage `json:"elems,omitempty"`
	Tuple  json.RawMessage   `json:"tuple,omitempty"`
	Index  int               `json:"index,omitempty"`
	Aliased json.RawMessage  `json:"aliased,omitempty"`
	Child  json.RawMessage   `json:"child,omitempty"`
}

func decodeNode(raw json.RawMessage) (Node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var w nodeWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}

	switch w.Kind {
	case "lit_int":
		var v int32
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, fmt.Errorf("decode lit_int value: %w", err)
		}
		return &LitInt{ID: w.ID, Value: v}, nil
	case "lit_float":
		var v float64
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, fmt.Errorf("decode lit_float value: %w", err)
		}
		return &LitFloat{ID: w.ID, Value: v}, nil
	case "lit_string":
		var v string
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, fmt.Errorf("decode lit_string value: %w", err)
		}
		return &LitString{ID: w.ID, Value: v}, nil
	case "sequence":
		lhs, err := decodeNode(w.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeNode(w.Rhs)
		if err != nil {
			return nil, err
		}
		return &Sequence{ID: w.ID, Lhs: lhs, Rhs: rhs}, nil
	case "let":
		val, err := decodeNode(w.Value)
		if err != nil {
			return nil, err
		}
		return &Let{ID: w.ID, Var: w.Var, Value: val}, nil
	case "assign":
		val, err := decodeNode(w.Value)
		if err != nil {
			return nil, err
		}
		return &Assign{ID: w.ID, Var: w.Var, Value: val}, nil
	case "lookup":
		return &Lookup{ID: w.ID, Use: w.Use}, nil
	case "unary":
		operand, err := decodeNode(w.Operand)
		if err != nil {
			return nil, err
		}
		return &Unary{ID: w.ID, Op: w.Op, Operand: operand}, nil
	case "binary":
		left, err := decodeNode(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeNode(w.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{ID: w.ID, Op: w.Op, Left: left, Right: right}, nil
	case "quote":
		return &Quote{ID: w.ID, Scope: w.Scope}, nil
	case "fun":
		return &FunRef{ID: w.ID, Scope: w.Scope}, nil
	case "call":
		callee, err := decodeNode(w.Callee)
		if err != nil {
			return nil, err
		}
		args := make([]Node, 0, len(w.Args))
		for i1, a := range w.Args {
			an, err := decodeNode(a)
			if err != nil {
				return nil, fmt.Errorf("decode call arg %d: %w", i1, err)
			}
			args = append(args, an)
		}
		return &Call{ID: w.ID, Callee: callee, Args: args}, nil
	case "run":
		code, err := decodeNode(w.Code)
		if err != nil {
			return nil, err
		}
		return &Run{ID: w.ID, Code: code}, nil
	case "extern":
		return &ExternRef{ID: w.ID, Use: w.Use}, nil
	case "persist":
		return &PersistRef{ID: w.ID, Use: w.Use}, nil
	case "escape":
		inner, err := decodeNode(w.Inner)
		if err != nil {
			return nil, err
		}
		return &Escape{ID: w.ID, Inner: inner}, nil
	case "if":
		cond, err := decodeNode(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeNode(w.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeNode(w.Else)
		if err != nil {
			return nil, err
		}
		return &If{ID: w.ID, Cond: cond, Then: then, Else: els}, nil
	case "while":
		cond, err := decodeNode(w.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeNode(w.Body)
		if err != nil {
			return nil, err
		}
		return &While{ID: w.ID, Cond: cond, Body: body}, nil
	case "macrocall":
		args := make([]Node, 0, len(w.Args))
		for i1, a := range w.Args {
			an, err := decodeNode(a)
			if err != nil {
				return nil, fmt.Errorf("decode macrocall arg %d: %w", i1, err)
			}
			args = append(args, an)
		}
		return &MacroCall{ID: w.ID, Name: w.Name, Args: args}, nil
	case "alloc":
		elem, err := decodeType(w.Elem)
		if err != nil {
			return nil, fmt.Errorf("decode alloc elem type: %w", err)
		}
		count, err := decodeNode(w.Count)
		if err != nil {
			return nil, err
		}
		return &Alloc{ID: w.ID, Elem: elem, Count: count}, nil
	case "tuple":
		elems := make([]Node, 0, len(w.Elems))
		for i1, e1 := range w.Elems {
			en, err := decodeNode(e1)
			if err != nil {
				return nil, fmt.Errorf("decode tuple elem %d: %w", i1, err)
			}
			elems = append(elems, en)
		}
		return &Tuple{ID: w.ID, Elems: elems}, nil
	case "tuple_index":
		tup, err := decodeNode(w.Tuple)
		if err != nil {
			return nil, err
		}
		return &TupleIndex{ID: w.ID, Tuple: tup, Index: w.Index}, nil
	case "type_alias":
		aliased, err := decodeType(w.Aliased)
		if err != nil {
			return nil, fmt.Errorf("decode type_alias aliased type: %w", err)
		}
		return &TypeAlias{ID: w.ID, Name: w.Name, Aliased: aliased}, nil
	case "root":
		child, err := decodeNode(w.Child)
		if err != nil {
			return nil, err
		}
		return &Root{ID: w.ID, Child: child}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", w.Kind)
	}
}
