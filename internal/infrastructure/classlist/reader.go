// Package classlist reads and parses class list files.
//
// A class list has one record per physical line:
//
//	<ClassName> [id: <uint>] [super: <uint>] [interfaces: <uint>...] [source: <path>]
//
// Lines starting with '#' are comments and lines starting with '@' carry
// tagged directives such as @lambda-proxy.
package classlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reglet-dev/classlist/internal/domain/entities"
)

const (
	// MaxAllowedLine is the longest accepted line, excluding the line terminator.
	MaxAllowedLine = 4096

	// lineBufExtra is the read slack past MaxAllowedLine. It leaves room for
	// "\r\n" so that a line of exactly MaxAllowedLine chars fits one read.
	lineBufExtra = 10
)

// RawLine is one logical line of a class list, trimmed and with separators
// normalized to single-byte spaces.
type RawLine struct {
	Text   string
	Number int // 1-based physical line number
	Offset int // bytes trimmed from the start of the physical line
}

// Column converts a byte index into Text into a 1-based column of the
// physical line.
func (l RawLine) Column(idx int) int {
	return l.Offset + idx + 1
}

// LineReader yields the significant lines of a class list. It never holds
// more than MaxAllowedLine+lineBufExtra bytes of a single line.
type LineReader struct {
	r    *bufio.Reader
	line int
	done bool
}

// NewLineReader creates a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		r: bufio.NewReaderSize(r, MaxAllowedLine+lineBufExtra),
	}
}

// Next returns the next non-blank, non-comment line. ok is false at end of
// input. An overlong line yields a LineTooLong error.
func (lr *LineReader) Next() (RawLine, bool, error) {
	for !lr.done {
		raw, err := lr.readPhysical()
		if err != nil {
			return RawLine{}, false, err
		}
		if raw == nil {
			return RawLine{}, false, nil
		}

		line, keep := normalize(raw)
		if !keep {
			continue
		}
		line.Number = lr.line
		return line, true, nil
	}
	return RawLine{}, false, nil
}

// Lines returns the number of physical lines consumed so far.
func (lr *LineReader) Lines() int {
	return lr.line
}

// readPhysical reads one physical line without its terminator. It returns
// nil at end of input.
func (lr *LineReader) readPhysical() ([]byte, error) {
	chunk, err := lr.r.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		lr.line++
		if derr := lr.discardLine(); derr != nil {
			return nil, derr
		}
		fe := entities.NewFormatError(entities.ErrLineTooLong, lr.line, MaxAllowedLine+1)
		fe.Limit = MaxAllowedLine
		return nil, fe
	case errors.Is(err, io.EOF):
		lr.done = true
		if len(chunk) == 0 {
			return nil, nil
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read class list: %w", err)
	}

	lr.line++
	chunk = trimTerminator(chunk)
	if len(chunk) > MaxAllowedLine {
		fe := entities.NewFormatError(entities.ErrLineTooLong, lr.line, MaxAllowedLine+1)
		fe.Limit = MaxAllowedLine
		return nil, fe
	}

	// ReadSlice's buffer is reused by the next read.
	out := make([]byte, len(chunk))
	copy(out, chunk)
	return out, nil
}

// discardLine skips the remainder of an overlong line in buffer-sized chunks.
func (lr *LineReader) discardLine() error {
	for {
		_, err := lr.r.ReadSlice('\n')
		switch {
		case err == nil:
			return nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			lr.done = true
			return nil
		default:
			return fmt.Errorf("failed to read class list: %w", err)
		}
	}
}

func trimTerminator(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

// normalize maps tab, form feed and carriage return to spaces, then trims
// surrounding spaces. Blank and comment lines are dropped.
func normalize(b []byte) (RawLine, bool) {
	for i, c := range b {
		if c == '\t' || c == '\f' || c == '\r' {
			b[i] = ' '
		}
	}

	s := string(b)
	trimmed := strings.TrimLeft(s, " ")
	offset := len(s) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " ")

	if trimmed == "" || trimmed[0] == '#' {
		return RawLine{}, false
	}
	return RawLine{Text: trimmed, Offset: offset}, true
}
