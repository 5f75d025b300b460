package compiler

import (
	"fmt"
	"strings"
)

// Diagnostic is an error anchored to a location in a view file.
type Diagnostic interface {
	error
	Span() Span
	Message() string
}

// MissingRootError reports a view in which no top-level widget is marked as root.
type MissingRootError struct {
	Location Span // The widget-declaration block
}

func (e *MissingRootError) Message() string {
	return "no root widget: mark exactly one top-level widget as root"
}

func (e *MissingRootError) Span() Span { return e.Location }

func (e *MissingRootError) Error() string {
	return e.Location.String() + ": " + e.Message()
}

// MultipleRootsError reports a view in which several top-level widgets are marked as root.
type MultipleRootsError struct {
	Location Span   // The widget-declaration block
	Roots    []Span // Every widget marked as root, in declaration order
}

func (e *MultipleRootsError) Message() string {
	locs := make([]string, len(e.Roots))
	for i, r := range e.Roots {
		locs[i] = r.String()
	}
	return fmt.Sprintf("%d widgets are marked as root (%s); only one top-level widget can be root",
		len(e.Roots), strings.Join(locs, ", "))
}

func (e *MultipleRootsError) Span() Span { return e.Location }

func (e *MultipleRootsError) Error() string {
	return e.Location.String() + ": " + e.Message()
}

// ValidationError reports a structural problem found by Validate.
type ValidationError struct {
	Location Span
	Msg      string
}

func (e *ValidationError) Message() string { return e.Msg }

func (e *ValidationError) Span() Span { return e.Location }

func (e *ValidationError) Error() string {
	return e.Location.String() + ": " + e.Msg
}
