// Package protocol implements the byte-level side of the VDU command stream:
// command sources, the receive FIFO and the packet framing used for replies.
package protocol

// Version represents the firmware version
const Version = "0.1.0"

// VDU stream codes
const (
	VDUSystem     = 23   // VDU 23 introduces an extended command
	VDUSystemMode = 0x00 // VDU 23, 0 selects the system command set
)

// System command codes (VDU 23, 0, <code>)
const (
	SysGeneralPoll = 0x80
	SysBuffered    = 0xA0
)

// Buffered sub-command codes (VDU 23, 0, &A0, bufferId; <code>)
const (
	BufferedWrite     = 0x00
	BufferedCall      = 0x01
	BufferedClear     = 0x02
	BufferedCreate    = 0x03
	BufferedSetOutput = 0x04
	BufferedAdjust    = 0x05
	BufferedDebugInfo = 0x10
)

// Reserved buffer identifiers
const (
	// BufferIDDefault restores the original output destination and may
	// not be created.
	BufferIDDefault uint16 = 0
	// BufferIDAll addresses every buffer (clear) or no output (set-output).
	BufferIDAll uint16 = 0xFFFF
)

// Packet codes sent back to the host
const (
	PacketGeneralPoll = 0x00
	PacketFlag        = 0x80 // set on the code byte of every packet
	PacketDataMax     = 0xFF
)
