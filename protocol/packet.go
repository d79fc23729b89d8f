package protocol

import (
	"fmt"
	"io"
)

// WritePacket frames data as a reply packet (code|0x80, length, data) and
// writes it to w in a single call.
func WritePacket(w io.Writer, code byte, data []byte) error {
	if len(data) > PacketDataMax {
		return fmt.Errorf("packet data too long: %d bytes (max %d)", len(data), PacketDataMax)
	}
	pkt := make([]byte, 0, len(data)+2)
	pkt = append(pkt, code|PacketFlag, byte(len(data)))
	pkt = append(pkt, data...)
	if _, err := w.Write(pkt); err != nil {
		return fmt.Errorf("failed to write packet 0x%02X: %w", code, err)
	}
	return nil
}
