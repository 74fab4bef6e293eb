package zylisp

import "fmt"

// version information, set at link time with
// -ldflags "-X github.com/glycerine/zylisp/zylisp.GITLASTTAG=..."
var GITLASTTAG string
var GITLASTCOMMIT string

func Version() string {
	if GITLASTTAG == "" {
		return "0.0.0"
	}
	if GITLASTCOMMIT == "" {
		return GITLASTTAG
	}
	return fmt.Sprintf("%s/%s", GITLASTTAG, GITLASTCOMMIT)
}
