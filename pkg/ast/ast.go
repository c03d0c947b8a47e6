package ast

import "lox/interpreter-go/pkg/token"

type NodeType string

const (
	NodeAssignExpression   NodeType = "AssignExpression"
	NodeTernaryExpression  NodeType = "TernaryExpression"
	NodeBinaryExpression   NodeType = "BinaryExpression"
	NodeGroupingExpression NodeType = "GroupingExpression"
	NodeLiteral            NodeType = "Literal"
	NodeVariableExpression NodeType = "VariableExpression"
	NodeUnaryExpression    NodeType = "UnaryExpression"
	NodeLogicalExpression  NodeType = "LogicalExpression"
	NodeCallExpression     NodeType = "CallExpression"
	NodeFunctionLiteral    NodeType = "FunctionLiteral"
	NodeGetExpression      NodeType = "GetExpression"
	NodeSetExpression      NodeType = "SetExpression"
	NodeThisExpression     NodeType = "ThisExpression"
	NodeSuperExpression    NodeType = "SuperExpression"

	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeVarDeclaration      NodeType = "VarDeclaration"
	NodeBlockStatement      NodeType = "BlockStatement"
	NodePrintStatement      NodeType = "PrintStatement"
	NodeIfStatement         NodeType = "IfStatement"
	NodeWhileStatement      NodeType = "WhileStatement"
	NodeFunctionDeclaration NodeType = "FunctionDeclaration"
	NodeClassDeclaration    NodeType = "ClassDeclaration"
	NodeBreakStatement      NodeType = "BreakStatement"
	NodeReturnStatement     NodeType = "ReturnStatement"
)

// Node is implemented by every expression and statement. Nodes are never
// mutated after construction; passes key side tables by node pointer.
type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// Marker interfaces. The unexported methods close both unions to this package.

type Expr interface {
	Node
	exprNode()
}

type exprMarker struct{}

func (exprMarker) exprNode() {}

type Stmt interface {
	Node
	stmtNode()
}

type stmtMarker struct{}

func (stmtMarker) stmtNode() {}

// Expressions

type AssignExpression struct {
	nodeImpl
	exprMarker

	Name  token.Token
	Value Expr
}

func NewAssignExpression(name token.Token, value Expr) *AssignExpression {
	return &AssignExpression{nodeImpl: newNodeImpl(NodeAssignExpression), Name: name, Value: value}
}

// TernaryExpression is `Condition ? Then : Else`.
type TernaryExpression struct {
	nodeImpl
	exprMarker

	Condition Expr
	Then      Expr
	Else      Expr
}

func NewTernaryExpression(condition, then, els Expr) *TernaryExpression {
	return &TernaryExpression{nodeImpl: newNodeImpl(NodeTernaryExpression), Condition: condition, Then: then, Else: els}
}

type BinaryExpression struct {
	nodeImpl
	exprMarker

	Left     Expr
	Operator token.Token
	Right    Expr
}

func NewBinaryExpression(left Expr, operator token.Token, right Expr) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Left: left, Operator: operator, Right: right}
}

type GroupingExpression struct {
	nodeImpl
	exprMarker

	Expression Expr
}

func NewGroupingExpression(expr Expr) *GroupingExpression {
	return &GroupingExpression{nodeImpl: newNodeImpl(NodeGroupingExpression), Expression: expr}
}

// Literal holds nil, a bool, a float64 or a string.
type Literal struct {
	nodeImpl
	exprMarker

	Value any
}

func NewLiteral(value any) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value}
}

type VariableExpression struct {
	nodeImpl
	exprMarker

	Name token.Token
}

func NewVariableExpression(name token.Token) *VariableExpression {
	return &VariableExpression{nodeImpl: newNodeImpl(NodeVariableExpression), Name: name}
}

type UnaryExpression struct {
	nodeImpl
	exprMarker

	Operator token.Token
	Right    Expr
}

func NewUnaryExpression(operator token.Token, right Expr) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Right: right}
}

// LogicalExpression is a short-circuiting `and` / `or`.
type LogicalExpression struct {
	nodeImpl
	exprMarker

	Left     Expr
	Operator token.Token
	Right    Expr
}

func NewLogicalExpression(left Expr, operator token.Token, right Expr) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression), Left: left, Operator: operator, Right: right}
}

type CallExpression struct {
	nodeImpl
	exprMarker

	Callee    Expr
	Paren     token.Token
	Arguments []Expr
}

func NewCallExpression(callee Expr, paren token.Token, args []Expr) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Paren: paren, Arguments: args}
}

// FunctionLiteral is the parameter list and body shared by function
// declarations, methods and anonymous `fun (...) { ... }` expressions.
type FunctionLiteral struct {
	nodeImpl
	exprMarker

	Keyword token.Token
	Params  []token.Token
	Body    []Stmt
}

func NewFunctionLiteral(keyword token.Token, params []token.Token, body []Stmt) *FunctionLiteral {
	return &FunctionLiteral{nodeImpl: newNodeImpl(NodeFunctionLiteral), Keyword: keyword, Params: params, Body: body}
}

type GetExpression struct {
	nodeImpl
	exprMarker

	Object Expr
	Name   token.Token
}

func NewGetExpression(object Expr, name token.Token) *GetExpression {
	return &GetExpression{nodeImpl: newNodeImpl(NodeGetExpression), Object: object, Name: name}
}

type SetExpression struct {
	nodeImpl
	exprMarker

	Object Expr
	Name   token.Token
	Value  Expr
}

func NewSetExpression(object Expr, name token.Token, value Expr) *SetExpression {
	return &SetExpression{nodeImpl: newNodeImpl(NodeSetExpression), Object: object, Name: name, Value: value}
}

type ThisExpression struct {
	nodeImpl
	exprMarker

	Keyword token.Token
}

func NewThisExpression(keyword token.Token) *ThisExpression {
	return &ThisExpression{nodeImpl: newNodeImpl(NodeThisExpression), Keyword: keyword}
}

type SuperExpression struct {
	nodeImpl
	exprMarker

	Keyword token.Token
	Method  token.Token
}

func NewSuperExpression(keyword, method token.Token) *SuperExpression {
	return &SuperExpression{nodeImpl: newNodeImpl(NodeSuperExpression), Keyword: keyword, Method: method}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	stmtMarker

	Expression Expr
}

func NewExpressionStatement(expr Expr) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type VarDeclaration struct {
	nodeImpl
	stmtMarker

	Name        token.Token
	Initializer Expr // nil when absent
}

func NewVarDeclaration(name token.Token, initializer Expr) *VarDeclaration {
	return &VarDeclaration{nodeImpl: newNodeImpl(NodeVarDeclaration), Name: name, Initializer: initializer}
}

type BlockStatement struct {
	nodeImpl
	stmtMarker

	Statements []Stmt
}

func NewBlockStatement(stmts []Stmt) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Statements: stmts}
}

type PrintStatement struct {
	nodeImpl
	stmtMarker

	Expression Expr
}

func NewPrintStatement(expr Expr) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Expression: expr}
}

type IfStatement struct {
	nodeImpl
	stmtMarker

	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

func NewIfStatement(condition Expr, then, els Stmt) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: els}
}

// WhileStatement also carries desugared `for` loops.
type WhileStatement struct {
	nodeImpl
	stmtMarker

	Condition Expr
	Body      Stmt
}

func NewWhileStatement(condition Expr, body Stmt) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}

type FunctionDeclaration struct {
	nodeImpl
	stmtMarker

	Name     token.Token
	Function *FunctionLiteral
}

func NewFunctionDeclaration(name token.Token, fn *FunctionLiteral) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), Name: name, Function: fn}
}

type ClassDeclaration struct {
	nodeImpl
	stmtMarker

	Name       token.Token
	Superclass *VariableExpression // nil when absent
	Methods    []*FunctionDeclaration
}

func NewClassDeclaration(name token.Token, superclass *VariableExpression, methods []*FunctionDeclaration) *ClassDeclaration {
	return &ClassDeclaration{nodeImpl: newNodeImpl(NodeClassDeclaration), Name: name, Superclass: superclass, Methods: methods}
}

type BreakStatement struct {
	nodeImpl
	stmtMarker

	Keyword token.Token
}

func NewBreakStatement(keyword token.Token) *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement), Keyword: keyword}
}

type ReturnStatement struct {
	nodeImpl
	stmtMarker

	Keyword token.Token
	Value   Expr // nil when absent
}

func NewReturnStatement(keyword token.Token, value Expr) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Keyword: keyword, Value: value}
}
