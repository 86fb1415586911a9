// Package stream assembles a backend fragment stream into one response:
// every non-empty fragment is forwarded to a sink as it arrives while the
// full text accumulates for the transcript.
package stream

import (
	"errors"
	"io"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Sink receives displayable fragments in arrival order.
type Sink interface {
	Fragment(text string) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(text string) error

// Fragment calls f.
func (f SinkFunc) Fragment(text string) error {
	return f(text)
}

// Assemble drains src, forwarding each fragment with text content to sink
// and concatenating it into the returned full text. Fragments without
// content (tool-invocation frames and other control chunks) are skipped.
// On a mid-stream error the text gathered so far is returned alongside the
// error; fragments already forwarded stay forwarded.
func Assemble(src *schema.StreamReader[*schema.Message], sink Sink) (string, error) {
	defer src.Close()

	var full strings.Builder
	for {
		chunk, err := src.Recv()
		if errors.Is(err, io.EOF) {
			return full.String(), nil
		}
		if err != nil {
			return full.String(), err
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}

		if err := sink.Fragment(chunk.Content); err != nil {
			return full.String(), err
		}
		full.WriteString(chunk.Content)
	}
}
