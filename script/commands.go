// Package script turns a line-oriented text description of buffered
// commands into the binary VDU stream the coprocessor consumes.
package script

import "vdp/protocol"

func word(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

// System encodes VDU 23, 0, code followed by args
func System(code byte, args ...byte) []byte {
	return append([]byte{protocol.VDUSystem, protocol.VDUSystemMode, code}, args...)
}

// Buffered encodes VDU 23, 0, &A0, id; command followed by operands
func Buffered(id uint16, command byte, operands ...byte) []byte {
	out := System(protocol.SysBuffered, word(id)...)
	out = append(out, command)
	return append(out, operands...)
}

// Write encodes a write of data to id
func Write(id uint16, data []byte) []byte {
	return Buffered(id, protocol.BufferedWrite, append(word(uint16(len(data))), data...)...)
}

// Call encodes a replay of id
func Call(id uint16) []byte {
	return Buffered(id, protocol.BufferedCall)
}

// Clear encodes removal of id, or every buffer for protocol.BufferIDAll
func Clear(id uint16) []byte {
	return Buffered(id, protocol.BufferedClear)
}

// Create encodes allocation of a zeroed size-byte buffer
func Create(id, size uint16) []byte {
	return Buffered(id, protocol.BufferedCreate, word(size)...)
}

// SetOutput encodes an output redirection
func SetOutput(id uint16) []byte {
	return Buffered(id, protocol.BufferedSetOutput)
}

// Adjust encodes the reserved adjust command
func Adjust(id uint16) []byte {
	return Buffered(id, protocol.BufferedAdjust)
}

// DebugInfo encodes the diagnostic dump of id
func DebugInfo(id uint16) []byte {
	return Buffered(id, protocol.BufferedDebugInfo)
}

// Poll encodes a general poll that echoes n
func Poll(n byte) []byte {
	return System(protocol.SysGeneralPoll, n)
}
