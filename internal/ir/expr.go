package ir

import (
	"lumen/internal/source"
)

// ExprKind enumerates binding expression kinds.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	// ExprNumber is a numeric literal with an optional unit (px).
	ExprNumber
	ExprString
	ExprBool
	// ExprPropertyRef reads a property through a NamedReference.
	ExprPropertyRef
	ExprUnary
	ExprBinary
	// ExprCondition is `cond ? then : else`.
	ExprCondition
	// ExprCall is a call of a builtin function.
	ExprCall
)

// Expr is a node of a binding expression. Data holds the kind-specific
// payload (NumberData, PropertyRefData, ...).
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data any
}

type NumberData struct {
	Value float64
	Unit  string
}

type StringData struct {
	Value string
}

type BoolData struct {
	Value bool
}

type PropertyRefData struct {
	Ref NamedReference
}

type UnaryData struct {
	Op      string
	Operand *Expr
}

type BinaryData struct {
	Op  string
	LHS *Expr
	RHS *Expr
}

type ConditionData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

type CallData struct {
	Name string
	Args []*Expr
}

// NewPropertyRef wraps a reference into an expression.
func NewPropertyRef(ref NamedReference, span source.Span) *Expr {
	return &Expr{Kind: ExprPropertyRef, Span: span, Data: PropertyRefData{Ref: ref}}
}

// NewNumber builds a numeric literal.
func NewNumber(v float64, unit string, span source.Span) *Expr {
	return &Expr{Kind: ExprNumber, Span: span, Data: NumberData{Value: v, Unit: unit}}
}

// NewBinary builds lhs op rhs.
func NewBinary(op string, lhs, rhs *Expr, span source.Span) *Expr {
	return &Expr{Kind: ExprBinary, Span: span, Data: BinaryData{Op: op, LHS: lhs, RHS: rhs}}
}

// Ref returns the reference held by a property-reference expression.
func (e *Expr) Ref() (NamedReference, bool) {
	if e == nil || e.Kind != ExprPropertyRef {
		return NamedReference{}, false
	}
	data, ok := e.Data.(PropertyRefData)
	if !ok {
		return NamedReference{}, false
	}
	return data.Ref, true
}

// Children returns the direct sub-expressions in evaluation order.
func (e *Expr) Children() []*Expr {
	if e == nil {
		return nil
	}
	switch data := e.Data.(type) {
	case UnaryData:
		return []*Expr{data.Operand}
	case BinaryData:
		return []*Expr{data.LHS, data.RHS}
	case ConditionData:
		return []*Expr{data.Cond, data.Then, data.Else}
	case CallData:
		return data.Args
	}
	return nil
}
