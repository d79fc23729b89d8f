package script

import (
	"bytes"
	"strings"
	"testing"

	"vdp/protocol"
)

func TestParseLine(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		input string
		verb  string
		args  []string
	}{
		{input: "write 1 0x10 0x20", verb: "write", args: []string{"1", "0x10", "0x20"}},
		{input: "CALL 7", verb: "call", args: []string{"7"}},
		{input: `write 2 "hello world" 13`, verb: "write", args: []string{"2", "hello world", "13"}},
		{input: "poll 5 # trailing comment", verb: "poll", args: []string{"5"}},
	}

	for _, test := range tests {
		cmd, err := parser.ParseLine(test.input)
		if err != nil {
			t.Errorf("Failed to parse '%s': %v", test.input, err)
			continue
		}
		if cmd == nil {
			t.Errorf("Got nil command for '%s'", test.input)
			continue
		}
		if cmd.Verb != test.verb {
			t.Errorf("Expected verb %s, got %s for '%s'", test.verb, cmd.Verb, test.input)
		}
		if strings.Join(cmd.Args, "|") != strings.Join(test.args, "|") {
			t.Errorf("Expected args %v, got %v for '%s'", test.args, cmd.Args, test.input)
		}
	}
}

func TestParseBlankAndComment(t *testing.T) {
	parser := NewParser()

	for _, line := range []string{"", "   ", "# only a comment"} {
		cmd, err := parser.ParseLine(line)
		if err != nil {
			t.Errorf("Failed to parse '%s': %v", line, err)
		}
		if cmd != nil {
			t.Errorf("Expected nil command for '%s', got %+v", line, cmd)
		}
	}
}

func TestEncodeCommands(t *testing.T) {
	tests := []struct {
		input string
		want  []byte
	}{
		{"write 1 0x10 0x20", []byte{23, 0, 0xA0, 1, 0, 0, 2, 0, 0x10, 0x20}},
		{"write 3 AB", []byte{23, 0, 0xA0, 3, 0, 0, 2, 0, 'A', 'B'}},
		{"call 1", []byte{23, 0, 0xA0, 1, 0, 1}},
		{"clear -1", []byte{23, 0, 0xA0, 0xFF, 0xFF, 2}},
		{"create 9 8", []byte{23, 0, 0xA0, 9, 0, 3, 8, 0}},
		{"output 65535", []byte{23, 0, 0xA0, 0xFF, 0xFF, 4}},
		{"adjust 4", []byte{23, 0, 0xA0, 4, 0, 5}},
		{"debug 4", []byte{23, 0, 0xA0, 4, 0, 0x10}},
		{"poll 7", []byte{23, 0, 0x80, 7}},
		{"raw 65 66", []byte{65, 66}},
	}

	for _, test := range tests {
		got, err := Encode(strings.NewReader(test.input))
		if err != nil {
			t.Errorf("Failed to encode '%s': %v", test.input, err)
			continue
		}
		if !bytes.Equal(got, test.want) {
			t.Errorf("Encode '%s': expected %v, got %v", test.input, test.want, got)
		}
	}
}

func TestEncodeBlock(t *testing.T) {
	src := `
# buffer 2 polls and then calls buffer 1
block 2
  poll 1
  block 1
    raw 0x41
  end
end
call 2
`
	got, err := Encode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	inner := Write(1, []byte{0x41})
	want := append(Write(2, append(Poll(1), inner...)), Call(2)...)
	if !bytes.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []string{
		"jump 1",
		"call",
		"call 70000",
		"create 1",
		"write 1 300",
		"poll",
		"block 1",
		"end",
		`write 1 "unterminated`,
	}

	for _, input := range tests {
		if _, err := Encode(strings.NewReader(input)); err == nil {
			t.Errorf("Expected error for '%s'", input)
		}
	}
}

func TestBuildersUseProtocolCodes(t *testing.T) {
	got := SetOutput(protocol.BufferIDDefault)
	if got[5] != protocol.BufferedSetOutput {
		t.Errorf("Expected set-output code %d, got %d", protocol.BufferedSetOutput, got[5])
	}
	if len(Clear(protocol.BufferIDAll)) != 6 {
		t.Errorf("Expected 6-byte clear command, got %d", len(Clear(protocol.BufferIDAll)))
	}
}
