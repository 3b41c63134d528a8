package sip

import (
	"io"

	"braces.dev/errtrace"
)

// Render returns the wire form of msg.
// A message with an empty body ends right after the last header line,
// use [RenderTo] with [RenderOptions.CloseHeaders] to get a complete message.
func Render(msg Message) string {
	if msg == nil {
		return ""
	}
	return msg.Render(nil)
}

// RenderTo writes the wire form of msg to w.
// It returns the number of bytes written and the first write error.
func RenderTo(w io.Writer, msg Message, opts *RenderOptions) (int, error) {
	if msg == nil {
		return 0, nil
	}
	return errtrace.Wrap2(msg.RenderTo(w, opts))
}
