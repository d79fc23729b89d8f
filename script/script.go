package script

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Encode reads a script and returns the binary command stream.
//
// Each line holds one command:
//
//	write <id> <bytes...>    capture bytes into buffer id
//	call <id>                replay buffer id
//	clear <id>               remove buffer id (-1 clears all)
//	create <id> <size>       allocate a zeroed buffer
//	output <id>              redirect output (0 restores, -1 discards)
//	adjust <id>              reserved, encoded as-is
//	debug <id>               diagnostic dump
//	poll <n>                 general poll echoing n
//	raw <bytes...>           bytes passed through untouched
//	block <id> ... end       encode the enclosed lines and write them to id
//
// Numeric tokens are bytes; any other token contributes its text.
func Encode(r io.Reader) ([]byte, error) {
	parser := NewParser()
	scanner := bufio.NewScanner(r)

	// stack of open blocks; the bottom entry collects the top-level stream
	type frame struct {
		id   uint16
		line int
		buf  bytes.Buffer
	}
	stack := []*frame{{}}

	for scanner.Scan() {
		cmd, err := parser.ParseLine(scanner.Text())
		if err != nil {
			return nil, err
		}
		if cmd == nil {
			continue
		}

		switch cmd.Verb {
		case "block":
			if len(cmd.Args) != 1 {
				return nil, fmt.Errorf("line %d: block takes one buffer id", cmd.Line)
			}
			id, err := parseID(cmd.Args[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", cmd.Line, err)
			}
			stack = append(stack, &frame{id: id, line: cmd.Line})
		case "end":
			if len(stack) == 1 {
				return nil, fmt.Errorf("line %d: end without block", cmd.Line)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.buf.Len() > 0xFFFF {
				return nil, fmt.Errorf("line %d: block is %d bytes, more than one write can carry", top.line, top.buf.Len())
			}
			stack[len(stack)-1].buf.Write(Write(top.id, top.buf.Bytes()))
		default:
			out, err := encodeCommand(cmd)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", cmd.Line, err)
			}
			stack[len(stack)-1].buf.Write(out)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(stack) > 1 {
		return nil, fmt.Errorf("line %d: block not closed", stack[len(stack)-1].line)
	}
	return stack[0].buf.Bytes(), nil
}

func encodeCommand(cmd *Command) ([]byte, error) {
	switch cmd.Verb {
	case "write":
		if len(cmd.Args) < 1 {
			return nil, fmt.Errorf("write needs a buffer id")
		}
		id, err := parseID(cmd.Args[0])
		if err != nil {
			return nil, err
		}
		data, err := parseBytes(cmd.Args[1:])
		if err != nil {
			return nil, err
		}
		if len(data) > 0xFFFF {
			return nil, fmt.Errorf("write of %d bytes exceeds 65535", len(data))
		}
		return Write(id, data), nil
	case "create":
		if len(cmd.Args) != 2 {
			return nil, fmt.Errorf("create takes a buffer id and a size")
		}
		id, err := parseID(cmd.Args[0])
		if err != nil {
			return nil, err
		}
		size, err := parseWord(cmd.Args[1])
		if err != nil {
			return nil, err
		}
		return Create(id, size), nil
	case "call", "clear", "output", "adjust", "debug":
		if len(cmd.Args) != 1 {
			return nil, fmt.Errorf("%s takes one buffer id", cmd.Verb)
		}
		id, err := parseID(cmd.Args[0])
		if err != nil {
			return nil, err
		}
		return idCommands[cmd.Verb](id), nil
	case "poll":
		data, err := parseBytes(cmd.Args)
		if err != nil {
			return nil, err
		}
		if len(data) != 1 {
			return nil, fmt.Errorf("poll takes one byte")
		}
		return Poll(data[0]), nil
	case "raw":
		return parseBytes(cmd.Args)
	}
	return nil, fmt.Errorf("unknown command %q", cmd.Verb)
}

var idCommands = map[string]func(uint16) []byte{
	"call":   Call,
	"clear":  Clear,
	"output": SetOutput,
	"adjust": Adjust,
	"debug":  DebugInfo,
}
