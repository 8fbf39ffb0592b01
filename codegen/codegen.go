// Package codegen lowers an *ast.Function into AT&T-syntax x86-64
// assembly text, System V AMD64 calling convention. It uses a fixed
// pool of six registers as a virtual evaluation stack: pushing writes
// to registers[top] and increments top, popping decrements top. No
// spilling is implemented - an expression whose Sethi-Ullman depth
// exceeds the pool size is a compile error, not silently miscompiled.
package codegen

import (
	"fmt"
	"strings"

	"github.com/KT-314/Compiler/ast"
	"github.com/KT-314/Compiler/diagnostics"
)

// registers is the register pool, in allocation order.
var registers = [6]string{"%r10", "%r11", "%r12", "%r13", "%r14", "%r15"}

// CodeGen holds the state needed while lowering a single function: the
// output being built, the register-stack pointer, and the label
// counter used to keep conditional/loop label sites unique.
type CodeGen struct {
	out        strings.Builder
	top        int
	labelCount int
}

// Generate lowers fn into a complete assembly-language program defining
// one global function, "main". fn.StackSize must already have been
// computed (see the driver's offset-assignment pass).
func Generate(fn *ast.Function) (out string, err error) {
	g := &CodeGen{}

	// A non-empty register stack after lowering the body is a
	// compiler bug, not a user-facing error - it indicates an
	// expression/statement pairing that didn't balance pushes and
	// pops the way genExpr/genStmt's contract requires. We assert it
	// with a panic, which this recover turns into an error prefixed
	// "internal error" rather than a user-facing diagnostic message.
	defer func() {
		if r := recover(); r != nil {
			err = diagnostics.Report("internal error: %v", r)
		}
	}()

	g.prologue(fn.StackSize)

	if err := g.genStmt(fn.Body); err != nil {
		return "", err
	}

	if g.top != 0 {
		panic(fmt.Sprintf("register stack not empty after lowering function body: top=%d", g.top))
	}

	g.epilogue()

	return g.out.String(), nil
}

func (g *CodeGen) prologue(stackSize int) {
	g.out.WriteString(".globl main\n")
	g.out.WriteString("main:\n")
	g.out.WriteString("\tpush %rbp\n")
	g.out.WriteString("\tmov %rsp, %rbp\n")
	fmt.Fprintf(&g.out, "\tsub $%d, %%rsp\n", stackSize)
	g.out.WriteString("\tmov %r12, -8(%rbp)\n")
	g.out.WriteString("\tmov %r13, -16(%rbp)\n")
	g.out.WriteString("\tmov %r14, -24(%rbp)\n")
	g.out.WriteString("\tmov %r15, -32(%rbp)\n")
}

func (g *CodeGen) epilogue() {
	g.out.WriteString(".L.return:\n")
	g.out.WriteString("\tmov -8(%rbp), %r12\n")
	g.out.WriteString("\tmov -16(%rbp), %r13\n")
	g.out.WriteString("\tmov -24(%rbp), %r14\n")
	g.out.WriteString("\tmov -32(%rbp), %r15\n")
	g.out.WriteString("\tmov %rbp, %rsp\n")
	g.out.WriteString("\tpop %rbp\n")
	g.out.WriteString("\tret\n")
}

// push allocates the next register on the register stack, or reports
// a register-exhaustion error when the expression's Sethi-Ullman depth
// exceeds the pool size.
func (g *CodeGen) push() (string, error) {
	if g.top >= len(registers) {
		return "", diagnostics.Report("register out of range: %d", g.top)
	}
	r := registers[g.top]
	g.top++
	return r, nil
}

// topReg returns the register holding the most recently pushed value.
func (g *CodeGen) topReg() string {
	return registers[g.top-1]
}

// genAddr computes the absolute address of node and pushes it. Only
// VAR nodes designate storage; anything else is not an lvalue.
func (g *CodeGen) genAddr(node *ast.Node) error {
	if node.Kind != ast.VAR {
		return diagnostics.Report("not an lvalue")
	}

	r, err := g.push()
	if err != nil {
		return err
	}
	fmt.Fprintf(&g.out, "\tlea -%d(%%rbp), %s\n", node.Var.Offset, r)
	return nil
}

// genExpr lowers node, leaving exactly one value on the register stack.
func (g *CodeGen) genExpr(node *ast.Node) error {
	switch node.Kind {
	case ast.NUM:
		r, err := g.push()
		if err != nil {
			return err
		}
		fmt.Fprintf(&g.out, "\tmov $%d, %s\n", node.Val, r)
		return nil

	case ast.VAR:
		if err := g.genAddr(node); err != nil {
			return err
		}
		r := g.topReg()
		fmt.Fprintf(&g.out, "\tmov (%s), %s\n", r, r)
		return nil

	case ast.ASSIGN:
		if err := g.genExpr(node.Rhs); err != nil {
			return err
		}
		if err := g.genAddr(node.Lhs); err != nil {
			return err
		}
		addr := g.topReg()
		val := registers[g.top-2]
		fmt.Fprintf(&g.out, "\tmov %s, (%s)\n", val, addr)
		g.top-- // pop the address, leaving the value as the result
		return nil
	}

	if err := g.genExpr(node.Lhs); err != nil {
		return err
	}
	if err := g.genExpr(node.Rhs); err != nil {
		return err
	}

	rd := registers[g.top-2]
	rs := registers[g.top-1]
	g.top--

	switch node.Kind {
	case ast.ADD:
		fmt.Fprintf(&g.out, "\tadd %s, %s\n", rs, rd)
	case ast.SUB:
		fmt.Fprintf(&g.out, "\tsub %s, %s\n", rs, rd)
	case ast.MUL:
		fmt.Fprintf(&g.out, "\timul %s, %s\n", rs, rd)
	case ast.DIV:
		fmt.Fprintf(&g.out, "\tmov %s, %%rax\n", rd)
		g.out.WriteString("\tcqo\n")
		fmt.Fprintf(&g.out, "\tidiv %s\n", rs)
		fmt.Fprintf(&g.out, "\tmov %%rax, %s\n", rd)
	case ast.EQ:
		g.genCompare(rs, rd, "sete")
	case ast.NE:
		g.genCompare(rs, rd, "setne")
	case ast.LT:
		g.genCompare(rs, rd, "setl")
	case ast.LE:
		g.genCompare(rs, rd, "setle")
	default:
		return diagnostics.Report("invalid expression")
	}
	return nil
}

func (g *CodeGen) genCompare(rs, rd, set string) {
	fmt.Fprintf(&g.out, "\tcmp %s, %s\n", rs, rd)
	fmt.Fprintf(&g.out, "\t%s %%al\n", set)
	fmt.Fprintf(&g.out, "\tmovzb %%al, %s\n", rd)
}

// genStmt lowers node, leaving the register stack depth unchanged.
func (g *CodeGen) genStmt(node *ast.Node) error {
	switch node.Kind {
	case ast.EXPRSTMT:
		if err := g.genExpr(node.Lhs); err != nil {
			return err
		}
		g.top--
		return nil

	case ast.RETURN:
		if err := g.genExpr(node.Lhs); err != nil {
			return err
		}
		g.top--
		fmt.Fprintf(&g.out, "\tmov %s, %%rax\n", registers[g.top])
		g.out.WriteString("\tjmp .L.return\n")
		return nil

	case ast.BLOCK:
		for n := node.Body; n != nil; n = n.Next {
			if err := g.genStmt(n); err != nil {
				return err
			}
		}
		return nil

	case ast.IF:
		return g.genIf(node)

	case ast.FOR:
		return g.genFor(node)

	default:
		return diagnostics.Report("invalid statement")
	}
}

func (g *CodeGen) genIf(node *ast.Node) error {
	c := g.label()

	if err := g.genExpr(node.Cond); err != nil {
		return err
	}
	g.top--
	fmt.Fprintf(&g.out, "\tcmp $0, %s\n", registers[g.top])
	fmt.Fprintf(&g.out, "\tje .L.else.%d\n", c)

	if err := g.genStmt(node.Then); err != nil {
		return err
	}
	fmt.Fprintf(&g.out, "\tjmp .L.end.%d\n", c)
	fmt.Fprintf(&g.out, ".L.else.%d:\n", c)

	if node.Els != nil {
		if err := g.genStmt(node.Els); err != nil {
			return err
		}
	}
	fmt.Fprintf(&g.out, ".L.end.%d:\n", c)
	return nil
}

func (g *CodeGen) genFor(node *ast.Node) error {
	c := g.label()

	if err := g.genStmt(node.Init); err != nil {
		return err
	}
	fmt.Fprintf(&g.out, ".L.begin.%d:\n", c)

	if node.Cond != nil {
		if err := g.genExpr(node.Cond); err != nil {
			return err
		}
		g.top--
		fmt.Fprintf(&g.out, "\tcmp $0, %s\n", registers[g.top])
		fmt.Fprintf(&g.out, "\tje .L.end.%d\n", c)
	}

	if err := g.genStmt(node.Then); err != nil {
		return err
	}

	if node.Inc != nil {
		if err := g.genExpr(node.Inc); err != nil {
			return err
		}
		g.top--
	}

	fmt.Fprintf(&g.out, "\tjmp .L.begin.%d\n", c)
	fmt.Fprintf(&g.out, ".L.end.%d:\n", c)
	return nil
}

// label returns the next label-site identifier, a counter starting at 1.
func (g *CodeGen) label() int {
	g.labelCount++
	return g.labelCount
}
