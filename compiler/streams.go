package compiler

import "strings"

// Stream is an append-only, ordered list of generated code fragments.
// Only the generator appends to a stream; callers read it.
type Stream struct {
	frags []string
}

func (s *Stream) add(frag string) {
	s.frags = append(s.frags, frag)
}

// Fragments returns a copy of the fragments in emission order.
func (s *Stream) Fragments() []string {
	if len(s.frags) == 0 {
		return nil
	}
	out := make([]string, len(s.frags))
	copy(out, s.frags)
	return out
}

// Len returns the number of fragments.
func (s *Stream) Len() int {
	return len(s.frags)
}

// String joins the fragments with newlines.
func (s *Stream) String() string {
	return strings.Join(s.frags, "\n")
}

// StreamSet holds the nine code streams produced by one generation pass.
type StreamSet struct {
	// InitRoot constructs the root widget and evaluates to it.
	InitRoot Stream
	// RenameRoot binds the generic root parameter to the root widget's name.
	RenameRoot Stream
	// StructFields declares one persistent field per widget (name Type).
	StructFields Stream
	// Init constructs every non-root widget.
	Init Stream
	// Assign applies plain and widget-valued properties.
	Assign Stream
	// Connect wires signal callbacks.
	Connect Stream
	// ReturnFields lists the field names bundled into the returned widgets value.
	ReturnFields Stream
	// DestructureFields lists the field names unpacked from that value.
	DestructureFields Stream
	// UpdateView re-applies watched properties on every model change.
	UpdateView Stream
}

// NamedStream pairs a stream with its conventional name.
type NamedStream struct {
	Name   string
	Stream *Stream
}

// Named returns the streams in their canonical order, for dumping and tests.
func (s *StreamSet) Named() []NamedStream {
	return []NamedStream{
		{"init_root", &s.InitRoot},
		{"rename_root", &s.RenameRoot},
		{"struct_fields", &s.StructFields},
		{"init", &s.Init},
		{"assign", &s.Assign},
		{"connect", &s.Connect},
		{"return_fields", &s.ReturnFields},
		{"destructure_fields", &s.DestructureFields},
		{"update_view", &s.UpdateView},
	}
}
