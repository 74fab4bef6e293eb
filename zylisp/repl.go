package zylisp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"
	"unicode"
)

var continuationPrompt = "... "

// Repl reads a line at a time, keeps reading while the input is an
// unfinished expression, evaluates it once in the session's root scope
// and prints the result. Errors are printed and the session goes on.
type Repl struct {
	z   *Zylisp
	cfg *Config
	out io.Writer

	// exactly one of reader and pr is set.
	reader *bufio.Reader
	pr     *Prompter
}

// NewRepl reads from in when cfg.NoLiner is set, and otherwise from the
// terminal through liner, which reads stdin only.
func NewRepl(z *Zylisp, cfg *Config, in io.Reader, out io.Writer) *Repl {
	r := &Repl{z: z, cfg: cfg, out: out}
	if cfg.NoLiner {
		// useful for a non-terminal environment, like under test.
		r.reader = bufio.NewReader(in)
	} else {
		r.pr = NewPrompter(cfg.Prompt, cfg.HistoryFile, z.Root())
	}
	return r
}

func (r *Repl) Close() {
	if r.pr != nil {
		r.pr.Close()
	}
}

func getLine(reader *bufio.Reader) (string, error) {
	line := make([]byte, 0)
	for {
		linepart, hasMore, err := reader.ReadLine()
		if err != nil {
			return "", err
		}
		line = append(line, linepart...)
		if !hasMore {
			break
		}
	}
	return string(line), nil
}

func (r *Repl) getline(prompt string) (string, error) {
	if r.reader != nil {
		fmt.Fprint(r.out, prompt)
		return getLine(r.reader)
	}
	return r.pr.Getline(&prompt)
}

// needsMoreInput reports a parse failure that more lines could repair.
func needsMoreInput(err error) bool {
	return errors.Is(err, ErrUnbalanced) || errors.Is(err, ErrUnterminatedString)
}

// getExpression returns the text read and its parse. A parse error other
// than running out of input is returned with the text.
func (r *Repl) getExpression() (string, *Node, error) {
	line, err := r.getline(r.cfg.Prompt)
	if err != nil {
		return "", nil, err
	}
	if isCommand(line) {
		return line, nil, nil
	}

	progn, err := Parse(line)
	for err != nil && needsMoreInput(err) {
		nextline, rerr := r.getline(continuationPrompt)
		if rerr != nil {
			return line, nil, rerr
		}
		line += "\n" + nextline
		progn, err = Parse(line)
	}
	return line, progn, err
}

// isCommand is true for a dot followed by a letter, so .5 stays a number.
func isCommand(line string) bool {
	s := strings.TrimSpace(line)
	return len(s) > 1 && s[0] == '.' && unicode.IsLetter(rune(s[1]))
}

// Run loops until end of input or .quit.
func (r *Repl) Run() error {
	if !r.cfg.Quiet {
		fmt.Fprintf(r.out, "zy version %s\n", Version())
		if r.pr != nil {
			fmt.Fprintf(r.out, "press tab to complete names. Ctrl-d to exit.\n")
		}
	}

	for {
		line, progn, err := r.getExpression()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			fmt.Fprintln(r.out, err)
			continue
		}

		if progn == nil {
			if quit := r.command(line); quit {
				return nil
			}
			continue
		}

		res, err := r.z.EvalNode(progn)
		if err != nil {
			fmt.Fprintln(r.out, err)
			continue
		}
		if res != SexpUnit {
			fmt.Fprintln(r.out, res.SexpString())
		}
	}
}

// command runs a dot command and reports whether the session should end.
func (r *Repl) command(line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	switch parts[0] {
	case ".quit":
		return true

	case ".ls":
		showNatives := len(parts) > 1 && parts[1] == "all"
		fmt.Fprint(r.out, r.z.Root().Show("Scopes:", showNatives))

	case ".dump":
		if len(parts) < 2 {
			fmt.Fprint(r.out, r.z.Root().Show("Scopes:", true))
			break
		}
		var err error
		obj, _ := r.z.FindObject(parts[1])
		switch obj.(type) {
		case *SexpClosure, *SexpNative:
			err = r.z.DumpFunctionByName(parts[1])
		default:
			_, err = r.z.Evaluator().Eval(MakeList([]Value{
				&SexpAtom{Name: "dump"}, &SexpAtom{Name: parts[1]},
			}), r.z.Root())
		}
		if err != nil {
			fmt.Fprintln(r.out, err)
		}

	case ".trace":
		ev := r.z.Evaluator()
		ev.Trace = !ev.Trace
		fmt.Fprintf(r.out, "trace: %v.\n", ev.Trace)

	case ".verb":
		Verbose = !Verbose
		fmt.Fprintf(r.out, "verbose: %v.\n", Verbose)

	case ".script":
		src := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ".script"))
		script, err := TranslateString(src)
		if err != nil {
			fmt.Fprintln(r.out, err)
			break
		}
		fmt.Fprint(r.out, script.Disassemble())

	default:
		fmt.Fprintf(r.out, "unknown command '%s'; try .quit .ls .dump .trace .verb .script\n", parts[0])
	}
	return false
}

func runScript(z *Zylisp, fname string, cfg *Config) error {
	_, err := z.LoadFile(fname)
	if cfg.CountFuncCalls {
		z.ShowCallCounts(os.Stdout)
	}
	return err
}

// translateScript handles -emit and -disasm for the script argument.
func translateScript(fname string, cfg *Config) error {
	var script *Script
	if saved, err := ReadScriptFile(fname); err == nil {
		script = saved
	} else {
		by, err := os.ReadFile(fname)
		if err != nil {
			return err
		}
		script, err = TranslateString(string(by))
		if err != nil {
			return err
		}
	}
	if cfg.Disasm {
		fmt.Print(script.Disassemble())
	}
	if cfg.EmitScript != "" {
		return script.WriteScriptFile(cfg.EmitScript)
	}
	return nil
}

// like main() for a standalone repl, now in library
func ReplMain(cfg *Config) {
	Verbose = cfg.Verbose
	z := NewZylisp(cfg)

	if cfg.CpuProfile != "" {
		f, err := os.Create(cfg.CpuProfile)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		defer pprof.StopCPUProfile()
	}
	defer writeMemProfile(cfg)

	if cfg.Command != "" {
		res, err := z.EvalString(cfg.Command)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if res != SexpUnit {
			fmt.Println(res.SexpString())
		}
		return
	}

	args := cfg.Flags.Args()
	if len(args) > 0 {
		var err error
		if cfg.EmitScript != "" || cfg.Disasm {
			err = translateScript(args[0], cfg)
		} else {
			err = runScript(z, args[0], cfg)
		}
		if err == nil {
			return
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		if cfg.ExitOnFailure {
			os.Exit(-1)
		}
	}

	repl := NewRepl(z, cfg, os.Stdin, os.Stdout)
	defer repl.Close()
	err := repl.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}

func writeMemProfile(cfg *Config) {
	if cfg.MemProfile == "" {
		return
	}
	f, err := os.Create(cfg.MemProfile)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer f.Close()

	err = pprof.Lookup("heap").WriteTo(f, 1)
	if err != nil {
		fmt.Println(err)
	}
}
