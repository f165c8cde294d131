package compose

import "fmt"

const (
	// DefaultBasePort is the first host port handed out on every host.
	DefaultBasePort = 8100
	maxPort         = 65535
)

// PortAllocator hands out sequential host ports for one manifest.
// It is not safe for concurrent use; each host gets its own allocator.
type PortAllocator struct {
	base int
	next int
}

// NewPortAllocator returns an allocator starting at base.
func NewPortAllocator(base int) (*PortAllocator, error) {
	if base < 1 || base > maxPort {
		return nil, fmt.Errorf("base port %d out of range 1-%d", base, maxPort)
	}
	return &PortAllocator{base: base, next: base}, nil
}

// Next returns the next unused port.
func (p *PortAllocator) Next() (int, error) {
	if p.next > maxPort {
		return 0, ErrPortExhausted(p.base)
	}
	port := p.next
	p.next++
	return port, nil
}

// Issued reports how many ports have been handed out.
func (p *PortAllocator) Issued() int { return p.next - p.base }
