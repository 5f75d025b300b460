package compiler

// ResolveRoot returns the type of the view's root widget, which becomes the
// type of the component's externally visible root handle.
//
// Exactly one top-level widget must be marked as root. Zero roots yields a
// *MissingRootError and several yield a *MultipleRootsError; both point at the
// widget-declaration block so the caller can report them and carry on.
func ResolveRoot(v *View) (string, error) {
	var (
		rootType string
		roots    []Span
	)
	for i := range v.Widgets {
		tl := &v.Widgets[i]
		if !tl.Root {
			continue
		}
		if len(roots) == 0 {
			rootType = tl.Widget.Type
		}
		roots = append(roots, tl.Widget.Span)
	}

	switch len(roots) {
	case 0:
		return "", &MissingRootError{Location: v.Span}
	case 1:
		return rootType, nil
	default:
		return "", &MultipleRootsError{Location: v.Span, Roots: roots}
	}
}

// Result is the output of one generation pass.
type Result struct {
	Streams  *StreamSet
	RootType string // Empty when RootErr is set or the view is standalone
	RootErr  error  // *MissingRootError or *MultipleRootsError
}

// Generate runs a complete pass: the streams are always produced, and a root
// resolution failure is recorded next to them instead of aborting the pass.
// Standalone views have no root and skip resolution.
func Generate(v *View, opts Options) *Result {
	res := &Result{Streams: GenerateStreams(v, opts)}
	if opts.Standalone {
		return res
	}
	res.RootType, res.RootErr = ResolveRoot(v)
	if res.RootErr != nil {
		opts.logger().Printf("%s: %v", v.Component, res.RootErr)
	}
	return res
}
