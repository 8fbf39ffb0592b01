// Package ast defines the abstract syntax tree this compiler's parser
// builds and its code generator walks: a tagged-variant Node, the flat
// per-function Variable list, and the Function that owns both.
package ast

// Kind identifies which variant of Node a given node is; the fields
// that are meaningful depend on Kind, documented alongside each
// constant below.
type Kind int

const (
	// NUM is an integer literal; Val holds its value.
	NUM Kind = iota

	// VAR is a variable reference, used as either an lvalue or an
	// rvalue depending on context; Var holds the referenced variable.
	VAR

	// ADD, SUB, MUL, DIV are binary arithmetic; Lhs/Rhs hold operands.
	ADD
	SUB
	MUL
	DIV

	// EQ, NE, LT, LE are binary comparisons evaluating to 0 or 1;
	// Lhs/Rhs hold operands. ">"/">=" are not distinct kinds - the
	// parser desugars them into LT/LE with swapped operands.
	EQ
	NE
	LT
	LE

	// ASSIGN stores Rhs into the lvalue Lhs (which must be VAR); the
	// expression's value is that of Rhs.
	ASSIGN

	// RETURN evaluates Lhs and returns it from the function.
	RETURN

	// EXPRSTMT evaluates Lhs and discards the result.
	EXPRSTMT

	// IF is a conditional; Cond/Then/Els (Els optional).
	IF

	// FOR is a C-style for loop; Init/Cond/Inc (Cond, Inc optional)
	// and Then. A bare `while (cond) stmt` is a FOR with Init and Inc
	// left nil.
	FOR

	// BLOCK is a sequence of statements (or, when Body is empty, the
	// no-op produced by a bare ";" statement); Body holds the
	// sequence in source order.
	BLOCK
)

// Variable is a local variable: its source name, and the stack offset
// (a non-negative multiple of 8 from the frame base) assigned to it
// once parsing has finished and the driver walks the locals list.
type Variable struct {
	Name   string
	Offset int
}

// Node is a single AST node. Only the fields relevant to Kind are
// populated; see the Kind constants above for which fields apply.
type Node struct {
	Kind Kind

	// Next links sibling statements inside a BLOCK's Body.
	Next *Node

	Lhs *Node
	Rhs *Node

	// Used by IF and FOR.
	Cond *Node
	Then *Node
	Els  *Node
	Init *Node
	Inc  *Node

	// Used by BLOCK.
	Body *Node

	Var *Variable // used by VAR
	Val int64     // used by NUM
}

// Function is the single compiled function ("main"): its body, the
// flat list of locals encountered while parsing it (in order of first
// appearance), and - once the driver has walked Locals - the 16-byte
// aligned total stack reservation required to hold them.
type Function struct {
	Body      *Node
	Locals    []*Variable
	StackSize int
}
