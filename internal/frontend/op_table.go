package frontend

// Таблица приоритетов бинарных операторов.
// Чем больше число, тем выше приоритет.
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * /
)

// binaryPrec возвращает приоритет оператора или -1, если это не бинарный
// оператор. Все операторы левоассоциативны.
func binaryPrec(tok token) int {
	if tok.kind != tokOp {
		return -1
	}
	switch tok.text {
	case "||":
		return precLogicalOr
	case "&&":
		return precLogicalAnd
	case "==", "!=":
		return precEquality
	case "<", "<=", ">", ">=":
		return precComparison
	case "+", "-":
		return precAdditive
	case "*", "/":
		return precMultiplicative
	}
	return -1
}

// builtinFunctions are the callable names of binding expressions.
var builtinFunctions = map[string]int{
	"min":   -1, // variadic, at least one argument
	"max":   -1,
	"abs":   1,
	"round": 1,
	"floor": 1,
	"ceil":  1,
	"sqrt":  1,
	"mod":   2,
}
