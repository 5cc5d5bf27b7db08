package terminal

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
)

type lineResult struct {
	line string
	err  error
}

// LineInput reads guesses one line at a time from a stream, writing a prompt
// before each read.
//
// Reads happen on a single background goroutine so NextGuess can return as
// soon as ctx is done. A read blocked in the underlying reader is abandoned,
// not interrupted; the goroutine exits at the next line or error.
type LineInput struct {
	reader *bufio.Reader
	out    io.Writer
	prompt string

	once  sync.Once
	lines chan lineResult
	want  chan struct{}
}

// NewLineInput creates a LineInput over r. A nil out disables the prompt.
//
// Precondition: r must be non-nil.
func NewLineInput(r io.Reader, out io.Writer, prompt string) *LineInput {
	return &LineInput{
		reader: bufio.NewReaderSize(r, 4096),
		out:    out,
		prompt: prompt,
		lines:  make(chan lineResult),
		want:   make(chan struct{}, 1),
	}
}

// NextGuess prompts, then returns the next line with surrounding whitespace
// trimmed and control characters other than tab removed.
//
// Postcondition: Returns ctx.Err() once ctx is done, or the reader's error
// (io.EOF at end of input) when no further line is available.
func (in *LineInput) NextGuess(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	in.once.Do(func() { go in.readLoop() })
	if in.out != nil && in.prompt != "" {
		_, _ = io.WriteString(in.out, in.prompt)
	}

	select {
	case in.want <- struct{}{}:
	default:
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-in.lines:
		if !ok {
			return "", io.EOF
		}
		return strings.TrimSpace(res.line), res.err
	}
}

func (in *LineInput) readLoop() {
	defer close(in.lines)
	for range in.want {
		line, err := ReadLine(in.reader)
		if err != nil && (line == "" || err != io.EOF) {
			in.lines <- lineResult{err: err}
			return
		}
		in.lines <- lineResult{line: line}
		if err != nil {
			return
		}
	}
}

// ReadLine reads one line from r. The terminator (\n, \r or \r\n) is not
// included and control characters other than tab are dropped.
//
// Postcondition: Returns the partial line together with the read error when
// the stream ends before a terminator.
func ReadLine(r *bufio.Reader) (string, error) {
	var line bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			return line.String(), err
		}
		if b == '\n' {
			break
		}
		if b == '\r' {
			next, err := r.Peek(1)
			if err == nil && len(next) > 0 && next[0] == '\n' {
				_, _ = r.ReadByte()
			}
			break
		}
		if (b < 32 && b != '\t') || b == 127 {
			continue
		}
		line.WriteByte(b)
	}
	return line.String(), nil
}
