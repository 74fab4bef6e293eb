/*
zyparse reads a program on stdin and prints what the parser made of it:
one re-readable expression per line, or with -tree the located syntax
tree.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/glycerine/zylisp/zylisp"
)

func main() {
	tree := flag.Bool("tree", false, "print the located syntax tree")
	flag.Parse()

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(-1)
	}

	progn, err := zylisp.Parse(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(-1)
	}

	if *tree {
		fmt.Print(progn.String())
		return
	}
	for _, expr := range progn.Items {
		fmt.Println(expr.SexpString())
	}
}
