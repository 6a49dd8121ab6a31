package ast

// IntegerLiteral is an INTEGER constant.
type IntegerLiteral struct {
	BaseNode
	Raw   string
	Value int64
}

// FloatLiteral is a FLOAT constant.
type FloatLiteral struct {
	BaseNode
	Raw   string
	Value float64
}

// StringLiteral is a STRING constant. Raw keeps the quotes and escapes as
// written; Value is the unescaped text.
type StringLiteral struct {
	BaseNode
	Raw   string
	Value string
}

// Variable is a reference to a named variable.
type Variable struct {
	BaseNode
	Name string
}

// ParenExpr is an expression in parentheses. X is nil when the parser
// recovered from an error inside the parentheses.
type ParenExpr struct {
	BaseNode
	X Expr
}

// CallExpr is a function call: name(args...).
type CallExpr struct {
	BaseNode
	Name string
	Args []Expr
}

// BinaryExpr is "Left Op Right". Op is the operator as written ("+", "<<",
// "&&", "==", ...).
type BinaryExpr struct {
	BaseNode
	Op    string
	Left  Expr
	Right Expr
}

// AssignExpr is an assignment used as an expression, as in a = b = 3.
// Its value is the value stored in Name.
type AssignExpr struct {
	BaseNode
	Name  string
	Value Expr
}

func (*IntegerLiteral) exprNode() {}
func (*FloatLiteral) exprNode()   {}
func (*StringLiteral) exprNode()  {}
func (*Variable) exprNode()       {}
func (*ParenExpr) exprNode()      {}
func (*CallExpr) exprNode()       {}
func (*BinaryExpr) exprNode()     {}
func (*AssignExpr) exprNode()     {}
