// Package types contains value types shared by the uri, header and sip packages.
package types

//go:generate go tool errtrace -w .

import "io"

// Renderer is an interface that is used to render a type to a string or a writer.
type Renderer interface {
	// Render renders the type to a string with the given options.
	Render(opts *RenderOptions) string
	// RenderTo renders the type to a writer with the given options.
	RenderTo(w io.Writer, opts *RenderOptions) (int, error)
}

// RenderOptions is a struct that is used to pass options to rendering methods.
type RenderOptions struct {
	// Compact is a boolean flag that is used to render header names in compact form.
	Compact bool `json:"compact,omitempty"`
	// CloseHeaders terminates the header block with an empty line
	// even when the message has no body.
	CloseHeaders bool `json:"close_headers,omitempty"`
}

// ValidFlag is implemented by values that can check themselves.
type ValidFlag interface {
	IsValid() bool
}

// IsValid returns true if the value has method `IsValid() bool` and it returns true.
func IsValid(v any) bool {
	vv, ok := v.(ValidFlag)
	return ok && vv.IsValid()
}
