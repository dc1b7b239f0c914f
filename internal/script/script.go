// Package script compiles JavaScript and Lua sources into object.Func method
// bodies that can be used as mixin modifiers and properties.
//
// Every call runs in a fresh interpreter, so compiled functions are safe for
// concurrent use. Functions created by a script do not outlive the call that
// created them: they are converted to nil when returned or stored on an
// object.
package script

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"remixin/object"
)

//go:generate go tool stringer -type=LangEnum -output=lang_string.go

type LangEnum int

const (
	_ LangEnum = iota // skip zero value, use it as a default (invalid) value for LangEnum

	LangJS
	LangLua

	// LangTotal is a constant that represents the total number of languages defined
	LangTotal = int(iota)
)

var (
	ErrUnknownLang = errors.New("unknown script language")
	ErrCompile     = errors.New("script does not compile")
	ErrTimeout     = errors.New("script timed out")
)

// ParseLang accepts "js", "javascript" and "lua" (case-insensitive).
func ParseLang(name string) (LangEnum, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "js", "javascript":
		return LangJS, nil
	case "lua":
		return LangLua, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownLang, name)
	}
}

// Options tune compiled functions.
type Options struct {
	// Name is used in error messages and JS stack traces.
	Name string
	// Timeout bounds a single JavaScript call. Zero means no limit.
	Timeout time.Duration
}

func (o Options) name() string {
	if o.Name == "" {
		return "anonymous"
	}

	return o.Name
}

// Compile checks source and returns a Func that runs it.
//
// JavaScript sources are a function expression; this is bound to the calling
// object. Lua sources are a chunk returning a function, called with the
// calling object followed by the arguments.
func Compile(lang LangEnum, source string, opts Options) (object.Func, error) {
	switch lang {
	case LangJS:
		return compileJS(source, opts)
	case LangLua:
		return compileLua(source, opts)
	default:
		return nil, fmt.Errorf("%w %s", ErrUnknownLang, lang)
	}
}
