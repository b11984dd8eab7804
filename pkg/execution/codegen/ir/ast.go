package ir

// Pos is a source position within the compiled query's DSL text. The parser
// that produces CallExpr nodes is out of scope; translators and tests build
// them directly.
type Pos struct {
	Line, Col int
}

// Expr is the minimal interface every argument to a CallExpr must satisfy.
// Real argument expressions (column refs, literals, nested calls) live
// upstream; the analyzer only needs each argument's resolved type.
type Expr interface {
	ResolvedType() *Type
	SetResolvedType(*Type)
	Position() Pos
}

// exprBase gives concrete argument node types a resolved-type slot.
type exprBase struct {
	pos Pos
	typ *Type
}

func (e *exprBase) ResolvedType() *Type     { return e.typ }
func (e *exprBase) SetResolvedType(t *Type) { e.typ = t }
func (e *exprBase) Position() Pos           { return e.pos }

// Literal is a constant of a native kind (used for sizeof's type argument,
// native bool/int/float casts, and string-literal arguments).
type Literal struct {
	exprBase
}

func NewLiteral(pos Pos, t *Type) *Literal {
	l := &Literal{exprBase: exprBase{pos: pos, typ: t}}
	return l
}

// FuncShape describes the structural signature of a function argument
// (comparator, equality tester, filter body) without inspecting its body -
// the analyzer checks arity and parameter/return shape only.
type FuncShape struct {
	exprBase
	ParamKinds []Kind
	ReturnKind Kind // KindInvalid if the function returns nothing
}

func NewFuncShape(pos Pos, params []Kind, ret Kind) *FuncShape {
	f := &FuncShape{exprBase: exprBase{pos: pos}, ParamKinds: params, ReturnKind: ret}
	f.typ = FunctionType(kindsToTypes(params), kindOrNil(ret))
	return f
}

func kindsToTypes(ks []Kind) []*Type {
	ts := make([]*Type, len(ks))
	for i, k := range ks {
		ts[i] = Plain(k)
	}
	return ts
}

func kindOrNil(k Kind) *Type {
	if k == KindInvalid {
		return nil
	}
	return Plain(k)
}

// CallExpr is a call to a callee identity. For intrinsics the callee is
// recognized by name by the semantic analyzer; ResolvedType is unset until
// the call is checked, and stays unset ("poisoned") if checking fails.
type CallExpr struct {
	exprBase
	Callee string
	Args   []Expr
}

func NewCallExpr(pos Pos, callee string, args []Expr) *CallExpr {
	return &CallExpr{exprBase: exprBase{pos: pos}, Callee: callee, Args: args}
}

// IsResolved reports whether the call's type has been set by the analyzer.
func (c *CallExpr) IsResolved() bool {
	return c.typ != nil
}
