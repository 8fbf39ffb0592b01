package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KT-314/Compiler/ast"
	"github.com/KT-314/Compiler/lexer"
	"github.com/KT-314/Compiler/parser"
)

// assignOffsets mirrors the driver's offset-assignment pass (spec §4.5):
// 32 bytes reserved for the saved callee-saved registers, locals from
// offset 40 growing by 8, total rounded up to a 16-byte multiple.
func assignOffsets(fn *ast.Function) {
	offset := 32
	for _, v := range fn.Locals {
		offset += 8
		v.Offset = offset
	}
	fn.StackSize = (offset + 15) / 16 * 16
}

func compile(t *testing.T, src string) (string, error) {
	t.Helper()

	tokens, err := lexer.Lex(src)
	require.NoError(t, err)

	fn, err := parser.Parse(src, tokens)
	require.NoError(t, err)

	assignOffsets(fn)
	return Generate(fn)
}

func TestGeneratePrologueAndEpilogue(t *testing.T) {
	out, err := compile(t, "{ return 42; }")
	require.NoError(t, err)

	assert.Contains(t, out, ".globl main\n")
	assert.Contains(t, out, "main:\n")
	assert.Contains(t, out, "push %rbp")
	assert.Contains(t, out, ".L.return:\n")
	assert.Contains(t, out, "ret")
}

func TestGenerateReturnLiteral(t *testing.T) {
	out, err := compile(t, "{ return 42; }")
	require.NoError(t, err)
	assert.Contains(t, out, "mov $42, %r10")
	assert.Contains(t, out, "jmp .L.return")
}

func TestGenerateArithmetic(t *testing.T) {
	out, err := compile(t, "{ return 5+20-4; }")
	require.NoError(t, err)
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "sub")
}

func TestGenerateNoConstantFolding(t *testing.T) {
	// This compiler performs no optimization: 1+2*3 must still emit a
	// full mul then add, never a folded "mov $7".
	out, err := compile(t, "{ return 1+2*3; }")
	require.NoError(t, err)
	assert.Contains(t, out, "imul")
	assert.Contains(t, out, "add")
	assert.NotContains(t, out, "$7,")
}

func TestGenerateComparisons(t *testing.T) {
	tests := map[string]string{
		"{ return 1==1; }": "sete",
		"{ return 1!=1; }": "setne",
		"{ return 1<2; }":  "setl",
		"{ return 1<=2; }": "setle",
	}
	for src, want := range tests {
		out, err := compile(t, src)
		require.NoError(t, err)
		assert.Contains(t, out, want)
		assert.Contains(t, out, "movzb %al,")
	}
}

func TestGenerateIfElseLabels(t *testing.T) {
	out, err := compile(t, "{ x=10; if (x>5) return 1; else return 0; }")
	require.NoError(t, err)
	assert.Contains(t, out, ".L.else.1:")
	assert.Contains(t, out, ".L.end.1:")
	assert.Contains(t, out, "je .L.else.1")
}

func TestGenerateForLabels(t *testing.T) {
	out, err := compile(t, "{ i=0; s=0; for(i=1;i<=10;i=i+1) s=s+i; return s; }")
	require.NoError(t, err)
	assert.Contains(t, out, ".L.begin.1:")
	assert.Contains(t, out, ".L.end.1:")
	assert.Contains(t, out, "jmp .L.begin.1")
}

func TestGenerateMultipleLabelSitesAreUnique(t *testing.T) {
	out, err := compile(t, "{ if (1) 1; if (1) 1; }")
	require.NoError(t, err)
	assert.Contains(t, out, ".L.else.1:")
	assert.Contains(t, out, ".L.else.2:")
}

func TestGenerateRegisterExhaustion(t *testing.T) {
	// A right-nested chain of N terms needs N live registers before
	// any pair can combine; 8 terms exceeds the 6-register pool.
	src := "{ return 1+(2+(3+(4+(5+(6+(7+8)))))); }"
	_, err := compile(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register out of range")
}

func TestGenerateExpressionAtDepthBoundCompiles(t *testing.T) {
	// 6 terms fit exactly within the 6-register pool.
	src := "{ return 1+(2+(3+(4+(5+6)))); }"
	_, err := compile(t, src)
	assert.NoError(t, err)
}

func TestGenerateAssignToNonLvalueIsCodegenError(t *testing.T) {
	tokens, err := lexer.Lex("{ 1 = 2; }")
	require.NoError(t, err)
	fn, err := parser.Parse("{ 1 = 2; }", tokens)
	require.NoError(t, err)
	assignOffsets(fn)

	_, err = Generate(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an lvalue")
}

func TestGenerateRegisterStackBalanced(t *testing.T) {
	programs := []string{
		"{ return 42; }",
		"{ a=1; b=2; return a+b; }",
		"{ for(i=0;i<3;i=i+1) ; return 0; }",
		"{ if (1) { a=1; } else { a=2; } return a; }",
	}
	for _, src := range programs {
		_, err := compile(t, src)
		assert.NoError(t, err, src)
	}
}
