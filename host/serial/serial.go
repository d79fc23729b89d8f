// Package serial connects the command processor to the host link
package serial

import (
	"io"
	"time"
)

// Port represents a serial port. Implementations return (0, nil) from Read
// when the read timeout expires without data.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate of the link to the host
	Baud int

	// ReadTimeout bounds a single read; 0 blocks
	ReadTimeout time.Duration
}

// DefaultConfig returns the link settings used by the host CPU
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        1152000,
		ReadTimeout: 100 * time.Millisecond,
	}
}
