package zylisp

import (
	"bytes"
	"io"
	"strings"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func newTestRepl(input string) (*Repl, *bytes.Buffer) {
	cfg := NewConfig("zy-test")
	cfg.NoLiner = true
	cfg.Quiet = true
	cfg.Prompt = "zy> "
	z := NewZylisp(cfg)
	var out bytes.Buffer
	z.SetOutput(&out)
	return NewRepl(z, cfg, strings.NewReader(input), &out), &out
}

func Test070ReplSessionWithoutLiner(t *testing.T) {

	cv.Convey(`Given a scripted session, the repl should print results, continue unbalanced input, report errors and stop at .quit`, t, func() {
		r, out := newTestRepl("(def x 2)\n(+ x\n 3)\nzork\n.quit\n(+ 1 1)\n")
		err := r.Run()
		panicOn(err)

		s := out.String()
		cv.So(s, cv.ShouldStartWith, "zy> 2\nzy> ... 5\nzy> ")
		cv.So(s, cv.ShouldContainSubstring, "eval error at line 1, column 1: undefined variable: zork\n")
		cv.So(strings.Count(s, "zy> "), cv.ShouldEqual, 4)
	})

	cv.Convey(`Unit results are not printed, and the session should end cleanly at end of input`, t, func() {
		r, out := newTestRepl("(print \"hi\")\n\n")
		err := r.Run()
		cv.So(err, cv.ShouldBeNil)
		cv.So(out.String(), cv.ShouldEqual, "zy> hizy> zy> ")
	})

	cv.Convey(`A line starting with a decimal point should be read as a number, not a command`, t, func() {
		r, out := newTestRepl(".5\n (+ .25 1)\n.quit\n")
		panicOn(r.Run())
		s := out.String()
		cv.So(s, cv.ShouldStartWith, "zy> 0.5\nzy> 1.25\nzy> ")
		cv.So(s, cv.ShouldNotContainSubstring, "unknown command")
		cv.So(isCommand(".quit"), cv.ShouldBeTrue)
		cv.So(isCommand("  .ls all"), cv.ShouldBeTrue)
		cv.So(isCommand(".5"), cv.ShouldBeFalse)
		cv.So(isCommand("."), cv.ShouldBeFalse)
	})

	cv.Convey(`A syntax error that more input cannot fix should be reported at once`, t, func() {
		r, out := newTestRepl("(a]\n1\n")
		panicOn(r.Run())
		cv.So(out.String(), cv.ShouldContainSubstring, "syntax error at line 1, column 3: mismatched delimiter")
		cv.So(out.String(), cv.ShouldContainSubstring, "zy> 1\n")
	})
}

func Test071ReplCommands(t *testing.T) {

	cv.Convey(`The dot commands should list scopes, toggle tracing, dump values and show translated scripts`, t, func() {
		var logged bytes.Buffer
		prev := OurStdout
		OurStdout = &logged
		defer func() { OurStdout = prev }()

		r, out := newTestRepl(strings.Join([]string{
			"(def x 2)",
			".ls",
			".trace",
			"(+ x 1)",
			".trace",
			".dump x",
			".script (+ 1 2)",
			".bogus",
		}, "\n") + "\n")
		panicOn(r.Run())

		s := out.String()
		cv.So(s, cv.ShouldContainSubstring, "x -> 2")
		cv.So(s, cv.ShouldContainSubstring, "trace: true.")
		cv.So(s, cv.ShouldContainSubstring, "trace: false.")
		cv.So(logged.String(), cv.ShouldContainSubstring, "(+ x 1)")
		cv.So(s, cv.ShouldContainSubstring, "SexpNumber")
		cv.So(s, cv.ShouldContainSubstring, "CALL   2")
		cv.So(s, cv.ShouldContainSubstring, "unknown command '.bogus'")
	})

	cv.Convey(`.dump of a function name should print its source form`, t, func() {
		r, out := newTestRepl("(defun twice (x) (* 2 x))\n.dump twice\n.dump car\n")
		panicOn(r.Run())
		s := out.String()
		cv.So(strings.Count(s, "(defun twice (x) (* 2 x))\n"), cv.ShouldEqual, 2)
		cv.So(s, cv.ShouldContainSubstring, "fn [car]\n")
		cv.So(s, cv.ShouldNotContainSubstring, "SexpClosure")
	})

	cv.Convey(`DumpFunctionByName should refuse unknown names and non-functions`, t, func() {
		z, _ := newTestSession()
		evalTo(z, `(def n 3)`)
		cv.So(z.DumpFunctionByName("nope"), cv.ShouldNotBeNil)
		err := z.DumpFunctionByName("n")
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(err.Error(), cv.ShouldContainSubstring, "not a function")
	})
}

func Test072Completion(t *testing.T) {

	cv.Convey(`Tab completion should offer root names that extend the atom after the last opener`, t, func() {
		root := NewRootScope(io.Discard)
		c := completions(root, "(ca")
		cv.So(c, cv.ShouldContain, "(car ")
		c = completions(root, "(list (emp")
		cv.So(c, cv.ShouldResemble, []string{"(list (empty? "})
		cv.So(completions(root, "car"), cv.ShouldBeNil)
	})
}

func Test073ConfigFlags(t *testing.T) {

	cv.Convey(`Command line flags should land in Config, and ValidateConfig should fill defaults and reject bad values`, t, func() {
		cfg := NewConfig("zy")
		cfg.DefineFlags()
		panicOn(cfg.Flags.Parse([]string{"-c", "(+ 1 2)", "-maxdepth", "50", "-noliner", "-trace"}))
		panicOn(cfg.ValidateConfig())
		cv.So(cfg.Command, cv.ShouldEqual, "(+ 1 2)")
		cv.So(cfg.MaxDepth, cv.ShouldEqual, 50)
		cv.So(cfg.NoLiner, cv.ShouldBeTrue)
		cv.So(cfg.Prompt, cv.ShouldEqual, "zy> ")

		z := NewZylisp(cfg)
		cv.So(z.Evaluator().MaxDepth, cv.ShouldEqual, 50)
		cv.So(z.Evaluator().Trace, cv.ShouldBeTrue)

		bad := NewConfig("zy")
		bad.DefineFlags()
		panicOn(bad.Flags.Parse([]string{"-maxdepth", "-2"}))
		cv.So(bad.ValidateConfig(), cv.ShouldNotBeNil)

		unlimited := NewConfig("zy")
		unlimited.DefineFlags()
		panicOn(unlimited.Flags.Parse([]string{"-maxdepth", "-1"}))
		panicOn(unlimited.ValidateConfig())
		cv.So(NewZylisp(unlimited).Evaluator().MaxDepth, cv.ShouldEqual, 0)

		emit := NewConfig("zy")
		emit.DefineFlags()
		panicOn(emit.Flags.Parse([]string{"-emit", "out.zys"}))
		cv.So(emit.ValidateConfig(), cv.ShouldNotBeNil)
	})

	cv.Convey(`A Config built by hand should still get the default depth guard`, t, func() {
		z := NewZylisp(&Config{})
		cv.So(z.Evaluator().MaxDepth, cv.ShouldEqual, DefaultMaxDepth)
	})
}
