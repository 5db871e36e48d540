// Package errs defines the error and source-location types shared by all
// yamlkit packages.
//
// Every failure raised by parsing, decoding, or encoding is an *Error
// combining a Kind, a message, and an optional Pos. Errors are immutable
// once constructed; With returns a copy rather than mutating in place, so
// an error raised at an inner node keeps its original position as it
// propagates outward.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	ParseSyntax Kind = iota
	UnexpectedShape
	MissingField
	UnknownField
	UnknownVariant
	AmbiguousVariantRepresentation
	NumericRange
	NonFiniteNumber
	Io
	Utf8
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		ParseSyntax:                    "ParseSyntax",
		UnexpectedShape:                "UnexpectedShape",
		MissingField:                   "MissingField",
		UnknownField:                   "UnknownField",
		UnknownVariant:                 "UnknownVariant",
		AmbiguousVariantRepresentation: "AmbiguousVariantRepresentation",
		NumericRange:                   "NumericRange",
		NonFiniteNumber:                "NonFiniteNumber",
		Io:                             "Io",
		Utf8:                           "Utf8",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

// Pos is a source position: byte offset plus 1-based line and column.
// Values built programmatically carry no Pos.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p *Pos) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Error is the single failure representation returned from every public
// entry point. Kind and Pos are the compatibility contract; Msg wording
// is not.
type Error struct {
	Kind Kind
	Msg  string
	Pos  *Pos
}

func (e *Error) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s at %s", e.Msg, e.Pos)
	}
	return e.Msg
}

func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

func Newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func At(k Kind, msg string, pos *Pos) *Error {
	return &Error{Kind: k, Msg: msg, Pos: pos}
}

func Atf(k Kind, pos *Pos, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// With returns a copy of e with pos attached, unless e already carries a
// position. The position of the innermost failing node wins.
func (e *Error) With(pos *Pos) *Error {
	if e.Pos != nil || pos == nil {
		return e
	}
	return &Error{Kind: e.Kind, Msg: e.Msg, Pos: pos}
}

// IsKind reports whether err is (or wraps) an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// PosOf returns the position carried by err, or nil.
func PosOf(err error) *Pos {
	var e *Error
	if errors.As(err, &e) {
		return e.Pos
	}
	return nil
}

// Wrap converts an arbitrary error into an *Error of kind k, preserving
// an existing *Error unchanged.
func Wrap(err error, k Kind) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: k, Msg: err.Error()}
}
