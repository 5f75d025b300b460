package compiler

import (
	"fmt"
	"io"
	"log"
	"regexp"
)

// Span locates a declaration in a view file. Line and Col are 1-based; a zero
// Line means the position is unknown.
type Span struct {
	File string
	Line int
	Col  int
}

// String formats the span as file:line:col, dropping the parts that are unknown.
func (s Span) String() string {
	switch {
	case s.Line == 0:
		return s.File
	case s.Col == 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
	}
}

// View is a parsed widget tree: the declarative description of one component's widgets.
type View struct {
	Component string           // Name of the component type the generated methods attach to (e.g., "Counter")
	Model     string           // Model type passed to InitWidgets and UpdateView (e.g., "*CounterModel")
	Imports   []string         // Import paths the generated file needs (e.g., "github.com/example/gtk")
	Widgets   []TopLevelWidget // Top-level widgets, in declaration order
	Span      Span             // Location of the whole widget-declaration block
}

// TopLevelWidget is a widget declared directly in the view. Only top-level
// widgets can be marked as the component's root.
type TopLevelWidget struct {
	Root   bool
	Widget Widget
}

// Widget is a named, typed UI element.
type Widget struct {
	Name        string          // Variable and field name in the generated code
	Type        string          // Static type, passed through verbatim (e.g., "*gtk.Window")
	Constructor string          // Optional construction expression; defaults to pkg.NewType()
	Properties  []Property      // Ordered; assignment and connection code follows this order
	Returned    *ReturnedWidget // Optional auxiliary widget yielded by one of this widget's signals
	Span        Span
}

// ReturnedWidget is an auxiliary widget surfaced by a signal callback of its
// owner. It cannot be a root and cannot own a further returned widget.
type ReturnedWidget struct {
	Name        string
	Type        string
	Constructor string
	Properties  []Property
	Span        Span
}

// Property configures one attribute of a widget.
type Property struct {
	Name string // Attribute name, e.g. "title" or "SetTitle" for values, "close_request" for signals
	Kind PropertyKind
	Span Span
}

// PropertyKind is one of PlainValue, WidgetValue or Signal.
type PropertyKind interface {
	propertyKind()
}

// PlainValue is a value assignment. Any subset of the expressions may be set.
type PlainValue struct {
	Init   string // Statement emitted into the init stream before any assignment
	Assign string // Expression passed to the setter once, after construction
	Watch  string // Expression passed to the setter on every view update
	Track  string // Optional condition guarding the watch update
}

// WidgetValue assigns a nested widget, which is itself fully emitted.
type WidgetValue struct {
	Widget *Widget
}

// Signal connects a callback to a widget event.
type Signal struct {
	Params        string // Callback parameter list without parentheses (e.g., "btn *gtk.Button")
	Body          string // Callback body
	Handler       *Field // Optional persistent field holding the connection handle
	ReturnsWidget bool   // The callback yields the owner's returned widget
}

// Field is an extra persistent field contributed by a property.
type Field struct {
	Name string
	Type string
}

func (PlainValue) propertyKind()  {}
func (WidgetValue) propertyKind() {}
func (Signal) propertyKind()      {}

// Options controls stream generation.
type Options struct {
	// Standalone builds the root like any other widget (no InitRoot, no root
	// parameter), the way a plain view without a component is built.
	Standalone bool

	// Logger receives progress messages. Nil means discard.
	Logger *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return discardLogger
	}
	return o.Logger
}

var discardLogger = log.New(io.Discard, "", 0)

// identRegex matches the names usable as generated variables and fields.
var identRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
