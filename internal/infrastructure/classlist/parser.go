package classlist

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/services"
)

// Parser runs phase 1 over a class list: it reads, parses and registers
// each line in order and stops at the first error.
type Parser struct {
	logger *slog.Logger
	file   string
}

// NewParser creates a parser. file names the input in error reports and
// may be empty.
func NewParser(file string, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{file: file, logger: logger}
}

// Parse consumes r. Format errors are returned as *entities.FormatError
// carrying the file name.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*services.ParseResult, error) {
	reader := NewLineReader(r)
	reg := services.NewRegistry()
	result := &services.ParseResult{Registry: reg, Path: p.file}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, ok, err := reader.Next()
		if err != nil {
			return nil, p.annotate(err)
		}
		if !ok {
			break
		}

		if IsAtDirective(line) {
			d, err := ParseAtDirective(line)
			if err != nil {
				return nil, p.annotate(err)
			}
			p.logger.Debug("parsed directive", "tag", d.Tag, "line", d.Line)
			result.Directives = append(result.Directives, *d)
			continue
		}

		parsed, err := ParseLine(line)
		if err != nil {
			return nil, p.annotate(err)
		}
		if _, err := reg.Register(parsed); err != nil {
			return nil, p.annotate(err)
		}
	}

	result.Entries = reg.Entries()
	result.Lines = reader.Lines()
	p.logger.Debug("parsed class list", "path", p.file, "entries", len(result.Entries), "lines", result.Lines)
	return result, nil
}

func (p *Parser) annotate(err error) error {
	var fe *entities.FormatError
	if p.file != "" && errors.As(err, &fe) {
		fe.WithFile(p.file)
	}
	return err
}
