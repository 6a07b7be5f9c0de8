// Package sse decodes the newline-delimited event stream emitted by the AI
// gateway (and relayed verbatim by the chat endpoint) into incremental text
// deltas.
package sse

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Sentinel is the reserved payload marking the end of a streamed response.
const Sentinel = "[DONE]"

const dataPrefix = "data:"

// DefaultMaxBuffer bounds how many bytes may sit undecoded while waiting
// for the rest of a line. A well-formed stream never comes close; hitting
// the cap means the stream is corrupt.
const DefaultMaxBuffer = 1 << 20

// ErrParseAnomaly is returned when the undecoded buffer exceeds the cap,
// which only happens on a stream that never yields a parseable line.
var ErrParseAnomaly = errors.New("sse: unparseable stream exceeded buffer cap")

// chunkEvent mirrors the chat-completion streaming chunk shape. Only the
// delta content is extracted; everything else is ignored.
type chunkEvent struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Decoder incrementally consumes a byte stream of `data: <json>` lines and
// yields the text deltas they carry. It never buffers the response in full
// and never drops a line that was split across reads; such lines are pushed
// back and retried once more bytes arrive.
type Decoder struct {
	r io.Reader

	pending   string // undecoded tail, including any pushed-back line
	chunk     []byte
	maxBuffer int

	done    bool // sentinel seen
	eof     bool // underlying reader exhausted
	lastErr error
}

// NewDecoder wraps r with a Decoder using the default buffer cap.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:         r,
		chunk:     make([]byte, 4096),
		maxBuffer: DefaultMaxBuffer,
	}
}

// Next returns the next non-empty text delta. It returns io.EOF once the
// sentinel has been seen or the underlying stream ends; any bytes after the
// sentinel are ignored. Transport errors and ErrParseAnomaly abort the
// stream as a whole.
func (d *Decoder) Next() (string, error) {
	if d.lastErr != nil {
		return "", d.lastErr
	}
	for {
		if d.done {
			return d.fail(io.EOF)
		}

		delta, emitted := d.drainLines()
		if emitted {
			return delta, nil
		}
		if d.done || d.eof {
			return d.fail(io.EOF)
		}

		if len(d.pending) > d.maxBuffer {
			return d.fail(ErrParseAnomaly)
		}

		n, err := d.r.Read(d.chunk)
		if n > 0 {
			d.pending += string(d.chunk[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.eof = true
				continue
			}
			return d.fail(err)
		}
	}
}

// drainLines processes complete lines out of the pending buffer until a
// delta is produced, the sentinel is seen, a parse failure defers the line,
// or no complete line remains. It reports the delta (if any) and whether
// one was emitted.
func (d *Decoder) drainLines() (delta string, emitted bool) {
	for {
		line, rest, ok := cutLine(d.pending, d.eof)
		if !ok {
			return "", false
		}

		payload, isData := parseDataLine(line)
		if !isData {
			d.pending = rest
			continue
		}
		if payload == Sentinel {
			d.pending = ""
			d.done = true
			return "", false
		}

		var event chunkEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			if d.eof {
				// No more bytes are coming; the line can never complete.
				d.pending = ""
				return "", false
			}
			// Partial JSON split across chunks: push the whole line back
			// and wait for more bytes. Deferring, never dropping, is what
			// keeps concatenated deltas loss-free.
			d.pending = line + "\n" + rest
			return "", false
		}
		d.pending = rest

		if len(event.Choices) > 0 && event.Choices[0].Delta.Content != "" {
			return event.Choices[0].Delta.Content, true
		}
	}
}

func (d *Decoder) fail(err error) (string, error) {
	d.lastErr = err
	return "", err
}

// cutLine extracts the next newline-terminated line from s. At EOF a
// trailing unterminated line is surfaced as a final line.
func cutLine(s string, atEOF bool) (line, rest string, ok bool) {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSuffix(s[:i], "\r"), s[i+1:], true
	}
	if atEOF && s != "" {
		return strings.TrimSuffix(s, "\r"), "", true
	}
	return "", s, false
}

// parseDataLine strips the event framing from one line. Blank lines,
// comment lines (leading ':') and lines without the data prefix carry no
// payload.
func parseDataLine(line string) (payload string, ok bool) {
	if line == "" || strings.HasPrefix(line, ":") {
		return "", false
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, dataPrefix)), true
}
