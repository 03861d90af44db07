package ir

import (
	"strconv"
	"strings"
)

// String renders the expression in the binding syntax accepted by the
// front-end. Binary operands are parenthesised when nested.
func (e *Expr) String() string {
	var sb strings.Builder
	writeExpr(&sb, e, false)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e *Expr, nested bool) {
	if e == nil {
		sb.WriteString("<nil>")
		return
	}
	switch data := e.Data.(type) {
	case NumberData:
		sb.WriteString(strconv.FormatFloat(data.Value, 'g', -1, 64))
		sb.WriteString(data.Unit)
	case StringData:
		sb.WriteString(strconv.Quote(data.Value))
	case BoolData:
		sb.WriteString(strconv.FormatBool(data.Value))
	case PropertyRefData:
		sb.WriteString(data.Ref.String())
	case UnaryData:
		sb.WriteString(data.Op)
		writeExpr(sb, data.Operand, true)
	case BinaryData:
		if nested {
			sb.WriteByte('(')
		}
		writeExpr(sb, data.LHS, true)
		sb.WriteString(" " + data.Op + " ")
		writeExpr(sb, data.RHS, true)
		if nested {
			sb.WriteByte(')')
		}
	case ConditionData:
		if nested {
			sb.WriteByte('(')
		}
		writeExpr(sb, data.Cond, true)
		sb.WriteString(" ? ")
		writeExpr(sb, data.Then, true)
		sb.WriteString(" : ")
		writeExpr(sb, data.Else, true)
		if nested {
			sb.WriteByte(')')
		}
	case CallData:
		sb.WriteString(data.Name)
		sb.WriteByte('(')
		for i, arg := range data.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, arg, false)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("<invalid>")
	}
}
