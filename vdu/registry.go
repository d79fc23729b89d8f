package vdu

import (
	"fmt"
	"sort"
	"sync"
)

// SystemHandler runs a VDU 23,0 system command. The handler reads its own
// operands from the processor input.
type SystemHandler func(p *Processor) error

// SystemCommand is one entry of the VDU 23,0 command table
type SystemCommand struct {
	Code    byte
	Name    string
	Handler SystemHandler
}

// Registry maps system command codes to handlers
type Registry struct {
	mu       sync.RWMutex
	commands map[byte]*SystemCommand
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{commands: make(map[byte]*SystemCommand)}
}

// Register adds or replaces the handler for code
func (r *Registry) Register(code byte, name string, handler SystemHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[code] = &SystemCommand{Code: code, Name: name, Handler: handler}
}

// Get retrieves a command by code
func (r *Registry) Get(code byte) (*SystemCommand, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[code]
	return cmd, ok
}

// Names lists registered commands ordered by code
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]int, 0, len(r.commands))
	for code := range r.commands {
		codes = append(codes, int(code))
	}
	sort.Ints(codes)
	names := make([]string, len(codes))
	for i, code := range codes {
		names[i] = r.commands[byte(code)].Name
	}
	return names
}

// Dispatch calls the handler registered for code
func (r *Registry) Dispatch(code byte, p *Processor) error {
	cmd, ok := r.Get(code)
	if !ok {
		return fmt.Errorf("unknown system command 0x%02X", code)
	}
	return cmd.Handler(p)
}
