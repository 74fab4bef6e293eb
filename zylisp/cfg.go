package zylisp

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// configure a zylisp repl
type Config struct {
	CpuProfile     string
	MemProfile     string
	ExitOnFailure  bool
	CountFuncCalls bool
	Flags          *flag.FlagSet
	Command        string
	Quiet          bool
	Trace          bool
	Verbose        bool
	MaxDepth       int // 0 takes DefaultMaxDepth, -1 removes the limit

	// translate the program given as argument and write the script here
	// instead of running it.
	EmitScript string
	// print the listing of a translated program, or of a saved script.
	Disasm bool

	// liner bombs under emacs, avoid it with this flag.
	NoLiner     bool
	Prompt      string // default "zy> "
	HistoryFile string
}

func NewConfig(cmdname string) *Config {
	return &Config{
		Flags:    flag.NewFlagSet(cmdname, flag.ExitOnError),
		MaxDepth: DefaultMaxDepth,
	}
}

// call DefineFlags before myflags.Parse()
func (c *Config) DefineFlags() {
	c.Flags.StringVar(&c.CpuProfile, "cpuprofile", "", "write cpu profile to file")
	c.Flags.StringVar(&c.MemProfile, "memprofile", "", "write mem profile to file")
	c.Flags.BoolVar(&c.ExitOnFailure, "exitonfail", false, "exit on failure instead of starting repl")
	c.Flags.BoolVar(&c.CountFuncCalls, "countcalls", false, "count how many times each function is run")
	c.Flags.StringVar(&c.Command, "c", "", "expressions to evaluate")
	c.Flags.BoolVar(&c.Quiet, "quiet", false, "start repl without printing the version banner")
	c.Flags.BoolVar(&c.Trace, "trace", false, "trace every function application (very verbose)")
	c.Flags.BoolVar(&c.Verbose, "v", false, "verbose internal logging")
	c.Flags.IntVar(&c.MaxDepth, "maxdepth", DefaultMaxDepth, "maximum nesting of function applications; -1 for no limit")
	c.Flags.StringVar(&c.EmitScript, "emit", "", "translate the script argument and write the result to this file")
	c.Flags.BoolVar(&c.Disasm, "disasm", false, "print the translated listing of the script argument")
	c.Flags.BoolVar(&c.NoLiner, "noliner", false, "read lines without the liner line editor")
	c.Flags.StringVar(&c.Prompt, "prompt", "", "repl prompt")
	c.Flags.StringVar(&c.HistoryFile, "history", "", "repl history file (default ~/.zyhist)")
}

// call c.ValidateConfig() after myflags.Parse()
func (c *Config) ValidateConfig() error {
	if c.Prompt == "" {
		c.Prompt = "zy> "
	}
	if c.MaxDepth < -1 {
		return fmt.Errorf("-maxdepth must be -1 or more, got %d", c.MaxDepth)
	}
	if c.EmitScript != "" && c.Flags != nil && c.Flags.NArg() == 0 {
		return fmt.Errorf("-emit needs a script file argument to translate")
	}
	if c.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryFile = filepath.Join(home, ".zyhist")
		}
	}
	return nil
}
