package ast

// PrintStmt prints one or more values on a single line.
type PrintStmt struct {
	BaseNode
	Values []Expr
}

// LabeledStmt is "label: instruction". Labels have no runtime meaning.
type LabeledStmt struct {
	BaseNode
	Label string
	Body  Stmt
}

// AssignStmt is the "name = expression;" instruction.
type AssignStmt struct {
	BaseNode
	Name  string
	Value Expr
}

// IfStmt is if/else. Else is nil when there is no else branch; Cond is nil
// when the condition failed to parse.
type IfStmt struct {
	BaseNode
	Cond Expr
	Then Stmt
	Else Stmt
}

// WhileStmt checks Cond before every iteration.
type WhileStmt struct {
	BaseNode
	Cond Expr
	Body Stmt
}

// RepeatStmt runs Body at least once and stops once Cond is true.
type RepeatStmt struct {
	BaseNode
	Body []Stmt
	Cond Expr
}

// ReturnStmt returns Value from the enclosing function.
type ReturnStmt struct {
	BaseNode
	Value Expr
}

type BreakStmt struct {
	BaseNode
}

type ContinueStmt struct {
	BaseNode
}

// CompoundStmt is a braced block. It opens a new scope.
type CompoundStmt struct {
	BaseNode
	Declarations []*Declaration
	Body         []Stmt
}

// ExprStmt is an expression evaluated for its effect, usually a call.
type ExprStmt struct {
	BaseNode
	X Expr
}

func (*PrintStmt) stmtNode()    {}
func (*LabeledStmt) stmtNode()  {}
func (*AssignStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*RepeatStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*CompoundStmt) stmtNode() {}
func (*ExprStmt) stmtNode()     {}
