/*
The zylisp command line REPL is known as `zy`.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/glycerine/zylisp/zylisp"
)

func usage(myflags *flag.FlagSet) {
	fmt.Printf("zy command line help:\n")
	myflags.PrintDefaults()
	os.Exit(1)
}

func main() {
	cfg := zylisp.NewConfig("zy")
	cfg.DefineFlags()
	err := cfg.Flags.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		usage(cfg.Flags)
	}

	if err != nil {
		panic(err)
	}
	err = cfg.ValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zy command line error: '%v'\n", err)
		usage(cfg.Flags)
	}

	// the library does all the heavy lifting.
	zylisp.ReplMain(cfg)
}
