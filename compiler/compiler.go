// Package compiler wires the lexer, parser and code generator into the
// public compilation API: construct a Compiler with the source
// program, then call Compile to get back AT&T assembly text (or the
// first error encountered anywhere in the pipeline).
package compiler

import (
	"github.com/KT-314/Compiler/ast"
	"github.com/KT-314/Compiler/codegen"
	"github.com/KT-314/Compiler/lexer"
	"github.com/KT-314/Compiler/parser"
)

// Compiler holds the state of a single compilation.
type Compiler struct {
	source string
}

// New creates a Compiler for the given source program.
func New(source string) *Compiler {
	return &Compiler{source: source}
}

// Compile runs the full pipeline - lex, parse, assign stack offsets to
// locals, generate - and returns the resulting assembly text, or the
// first error encountered. There is no recovery: the first lex, parse
// or codegen error aborts the rest of the pipeline.
func (c *Compiler) Compile() (string, error) {
	tokens, err := lexer.Lex(c.source)
	if err != nil {
		return "", err
	}

	fn, err := parser.Parse(c.source, tokens)
	if err != nil {
		return "", err
	}

	assignOffsets(fn)

	return codegen.Generate(fn)
}

// assignOffsets walks the function's locals in order of first
// appearance, assigning each a stack offset: the first 32 bytes of the
// frame are reserved for the saved callee-saved registers (%r12-%r15),
// locals start at offset 40 and grow by 8 each, and the total is
// rounded up to a 16-byte multiple for System V stack alignment.
func assignOffsets(fn *ast.Function) {
	offset := 32
	for _, v := range fn.Locals {
		offset += 8
		v.Offset = offset
	}
	fn.StackSize = alignTo(offset, 16)
}

// alignTo rounds n up to the nearest multiple of align.
func alignTo(n, align int) int {
	return (n + align - 1) / align * align
}
