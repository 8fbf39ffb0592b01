// This is the main-driver for our compiler.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/KT-314/Compiler/compiler"
)

func main() {
	flag.Parse()

	//
	// Ensure we have a program as our single argument.
	//
	if len(flag.Args()) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: compiler 'program'\n")
		os.Exit(1)
	}

	//
	// Create a compiler-object, with the program as input, and compile.
	//
	out, err := compiler.New(flag.Args()[0]).Compile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}

	//
	// Success: the assembly text goes to STDOUT, nothing else touches it.
	//
	fmt.Print(out)
}
