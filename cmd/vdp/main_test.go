package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vdp/buffer"
	"vdp/script"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.vdu")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestEncodeFile(t *testing.T) {
	path := writeScript(t, "call 3\n")

	stream, err := encodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, script.Call(3), stream)

	_, err = encodeFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestEncodeCommandWritesFile(t *testing.T) {
	path := writeScript(t, "call 3\nclear -1\n")
	dest := filepath.Join(t.TempDir(), "prog.bin")
	t.Cleanup(func() { encodeOutput = "" })

	rootCmd.SetArgs([]string{"encode", path, "-o", dest})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, append(script.Call(3), script.Clear(0xFFFF)...), data)
}

func TestWriteFileReportsFailure(t *testing.T) {
	err := writeFile(t.TempDir(), []byte{1})
	assert.ErrorContains(t, err, "failed to create")
}

func TestRunCommand(t *testing.T) {
	path := writeScript(t, `
create 5 4
block 6
  poll 2
end
output 5
call 6
output 0
poll 1
raw 0x41
`)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"run", path})
	require.NoError(t, rootCmd.Execute())

	text := out.String()
	assert.Contains(t, text, "output (3 bytes)")
	assert.Contains(t, text, "rendered (1 codes): 41")
	assert.Contains(t, text, "buffers: 2")
	assert.Contains(t, text, "80 01 02 00")
}

func TestReport(t *testing.T) {
	store := buffer.NewStore()
	_, err := store.Write(1, []byte{0xAA})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, report(&out, nil, nil, store))
	assert.Contains(t, out.String(), "captured")
	assert.Contains(t, out.String(), "AA")
}
