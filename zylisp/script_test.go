package zylisp

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test060TranslatorInternsConstants(t *testing.T) {

	cv.Convey(`Given (+ 1 1) (+ 1 2), each distinct literal should enter the pool once and lists should push in reverse before a call`, t, func() {
		s, err := TranslateString(`(+ 1 1) (+ 1 2)`)
		panicOn(err)

		cv.So(len(s.Constants), cv.ShouldEqual, 3)
		cv.So(s.Constants[0].SexpString(), cv.ShouldEqual, "1")
		cv.So(s.Constants[1].SexpString(), cv.ShouldEqual, "+")
		cv.So(s.Constants[2].SexpString(), cv.ShouldEqual, "2")

		cv.So(s.Code, cv.ShouldResemble, []Instruction{
			{OpConst, 0}, {OpConst, 0}, {OpConst, 1}, {OpCall, 2},
			{OpConst, 2}, {OpConst, 0}, {OpConst, 1}, {OpCall, 2},
		})
	})

	cv.Convey(`A number and a string with the same text should be separate constants, and unit emits nothing`, t, func() {
		s, err := TranslateString(`(f 1 "1") ()`)
		panicOn(err)
		cv.So(len(s.Constants), cv.ShouldEqual, 3)
		cv.So(len(s.Code), cv.ShouldEqual, 4)
	})

	cv.Convey(`Quoted lists and non-program nodes should be refused`, t, func() {
		_, err := TranslateString(`'(a b)`)
		cv.So(errors.Is(err, ErrUntranslatable), cv.ShouldBeTrue)

		progn, err := Parse(`(a)`)
		panicOn(err)
		_, err = NewTranslator().Translate(progn.Items[0])
		cv.So(errors.Is(err, ErrUntranslatable), cv.ShouldBeTrue)
	})

	cv.Convey(`Disassemble should list the pool and the code`, t, func() {
		s, err := TranslateString(`(print "hi" #t)`)
		panicOn(err)
		listing := s.Disassemble()
		cv.So(listing, cv.ShouldContainSubstring, `string "hi"`)
		cv.So(listing, cv.ShouldContainSubstring, "boolean #t")
		cv.So(listing, cv.ShouldContainSubstring, "CALL")
		cv.So(listing, cv.ShouldContainSubstring, "; print")
	})
}

func Test061ScriptMsgpRoundTrip(t *testing.T) {

	cv.Convey(`A script should survive MarshalMsg and UnmarshalMsg with its pool and code intact`, t, func() {
		s, err := TranslateString(`(def greeting "abc") (if #f 1.5 (- 2))`)
		panicOn(err)

		by, err := s.MarshalMsg(nil)
		panicOn(err)

		s2 := &Script{}
		rest, err := s2.UnmarshalMsg(by)
		panicOn(err)
		cv.So(len(rest), cv.ShouldEqual, 0)
		cv.So(len(s2.Constants), cv.ShouldEqual, len(s.Constants))
		for i := range s.Constants {
			cv.So(TypeName(s2.Constants[i]), cv.ShouldEqual, TypeName(s.Constants[i]))
			cv.So(Equal(s2.Constants[i], s.Constants[i]), cv.ShouldBeTrue)
		}
		cv.So(s2.Code, cv.ShouldResemble, s.Code)
		cv.So(s2.Disassemble(), cv.ShouldEqual, s.Disassemble())
	})

	cv.Convey(`A changed byte should fail the checksum`, t, func() {
		s, err := TranslateString(`(def greeting "abc")`)
		panicOn(err)
		by, err := s.MarshalMsg(nil)
		panicOn(err)

		i := bytes.Index(by, []byte("abc"))
		cv.So(i, cv.ShouldBeGreaterThan, 0)
		by[i+2] = 'd'
		_, err = (&Script{}).UnmarshalMsg(by)
		cv.So(errors.Is(err, ErrBadScript), cv.ShouldBeTrue)
	})

	cv.Convey(`Scripts written to a file should read back the same`, t, func() {
		s, err := TranslateString(`(+ 1 2)`)
		panicOn(err)
		path := filepath.Join(t.TempDir(), "prog.zys")
		panicOn(s.WriteScriptFile(path))

		s2, err := ReadScriptFile(path)
		panicOn(err)
		cv.So(s2.Disassemble(), cv.ShouldEqual, s.Disassemble())
	})
}
