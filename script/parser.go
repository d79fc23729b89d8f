package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"vdp/protocol"
)

// Command is one parsed script line
type Command struct {
	Verb string
	Args []string
	Line int
}

// Parser splits script lines into commands
type Parser struct {
	line int
}

// NewParser creates a new script parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseLine tokenises one line. Blank lines and comments yield nil.
func (p *Parser) ParseLine(line string) (*Command, error) {
	p.line++
	tokens, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", p.line, err)
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	return &Command{
		Verb: strings.ToLower(tokens[0]),
		Args: tokens[1:],
		Line: p.line,
	}, nil
}

// parseID accepts 0..65535, with -1 as a spelling of 65535
func parseID(s string) (uint16, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid buffer id %q", s)
	}
	if v == -1 {
		return protocol.BufferIDAll, nil
	}
	if v < 0 || v > 0xFFFF {
		return 0, fmt.Errorf("buffer id %d out of range", v)
	}
	return uint16(v), nil
}

func parseWord(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid word %q", s)
	}
	return uint16(v), nil
}

// parseBytes turns numeric tokens into single bytes and any other token
// into its literal text
func parseBytes(tokens []string) ([]byte, error) {
	var out []byte
	for _, tok := range tokens {
		if v, err := strconv.ParseUint(tok, 0, 64); err == nil {
			if v > 0xFF {
				return nil, fmt.Errorf("byte value %s out of range", tok)
			}
			out = append(out, byte(v))
			continue
		}
		out = append(out, tok...)
	}
	return out, nil
}
