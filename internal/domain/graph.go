package domain

import (
	"encoding/hex"
	"fmt"
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// MaxServers is the capacity of a Network
const MaxServers = 512

// Rand is the source of randomness threaded through node creation and
// generation. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a deterministic generator for the given seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// newProcessRand returns a generator seeded from the process-wide source
func newProcessRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Network is the capacity-bounded graph store. It owns every server of a
// session; ids are dense indexes and are never reused.
type Network struct {
	servers []Server
	rng     Rand
}

// Option configures a Network
type Option func(*Network)

// WithRand makes the network draw from r instead of a process-seeded source
func WithRand(r Rand) Option {
	return func(n *Network) {
		if r != nil {
			n.rng = r
		}
	}
}

// NewNetwork creates an empty network
func NewNetwork(opts ...Option) *Network {
	n := &Network{
		servers: make([]Server, 0, MaxServers),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.rng == nil {
		n.rng = newProcessRand()
	}
	return n
}

// RestoreNetwork rebuilds a network from fully formed servers, as read from
// a save file. Server i must carry ID i.
func RestoreNetwork(servers []Server, opts ...Option) (*Network, error) {
	if len(servers) > MaxServers {
		return nil, fmt.Errorf("%d servers: %w", len(servers), ErrCapacityExceeded)
	}
	n := NewNetwork(opts...)
	n.servers = append(n.servers, servers...)
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Len returns the number of servers
func (n *Network) Len() int {
	return len(n.servers)
}

// Full reports whether no more servers can be created
func (n *Network) Full() bool {
	return len(n.servers) >= MaxServers
}

// Valid reports whether id refers to an existing server
func (n *Network) Valid(id ServerID) bool {
	return id >= 0 && int(id) < len(n.servers)
}

// Server returns the server with the given id
func (n *Network) Server(id ServerID) (*Server, bool) {
	if !n.Valid(id) {
		return nil, false
	}
	return &n.servers[id], true
}

// Servers returns all servers in id order. The slice must not be modified.
func (n *Network) Servers() []Server {
	return n.servers
}

// FindByName returns the lowest id whose name matches exactly
func (n *Network) FindByName(name string) (ServerID, bool) {
	for i := range n.servers {
		if n.servers[i].Name == name {
			return ServerID(i), true
		}
	}
	return InvalidID, false
}

// Rand returns the network's random source
func (n *Network) Rand() Rand {
	return n.rng
}

// Seed replaces the random source with a deterministic one
func (n *Network) Seed(seed uint64) {
	n.rng = NewRand(seed)
}

// CreateNode adds a server with random stats and returns its id
func (n *Network) CreateNode(name string) (ServerID, error) {
	if n.Full() {
		return InvalidID, fmt.Errorf("create %q: %w", name, ErrCapacityExceeded)
	}

	id := ServerID(len(n.servers))
	n.servers = append(n.servers, Server{
		ID:       id,
		Name:     truncate(name, MaxNameLen),
		Security: 1 + n.rng.IntN(10),
		Money:    100 + n.rng.IntN(900),
		Type:     ServerTypeUnknown,
		SubnetID: InvalidID,
	})
	return id, nil
}

// SetType reclassifies a server
func (n *Network) SetType(id ServerID, t ServerType) {
	if s, ok := n.Server(id); ok {
		s.Type = t
	}
}

// SetSubnet records the building a server belongs to
func (n *Network) SetSubnet(id, subnet ServerID) {
	if s, ok := n.Server(id); ok {
		s.SubnetID = subnet
	}
}

// Validate checks the structural invariants of the store
func (n *Network) Validate() error {
	if len(n.servers) > MaxServers {
		return fmt.Errorf("%d servers exceeds %d: %w", len(n.servers), MaxServers, ErrCapacityExceeded)
	}
	for i := range n.servers {
		s := &n.servers[i]
		if s.ID != ServerID(i) {
			return fmt.Errorf("server at index %d has id %d: %w", i, s.ID, ErrInvalidArgument)
		}
		if len(s.Links) > MaxLinks {
			return fmt.Errorf("server %d has %d links: %w", i, len(s.Links), ErrCapacityExceeded)
		}
		if len(s.Services) > MaxServices {
			return fmt.Errorf("server %d has %d services: %w", i, len(s.Services), ErrCapacityExceeded)
		}
		seen := make(map[ServerID]struct{}, len(s.Links))
		for _, to := range s.Links {
			if to == s.ID {
				return fmt.Errorf("server %d links to itself: %w", i, ErrInvalidArgument)
			}
			if !n.Valid(to) {
				return fmt.Errorf("server %d links to missing server %d: %w", i, to, ErrInvalidArgument)
			}
			if _, dup := seen[to]; dup {
				return fmt.Errorf("server %d links twice to %d: %w", i, to, ErrInvalidArgument)
			}
			seen[to] = struct{}{}
		}
	}
	return nil
}

// CheckReciprocal verifies every edge has its reverse
func (n *Network) CheckReciprocal() error {
	for i := range n.servers {
		for _, to := range n.servers[i].Links {
			if !n.HasLink(to, ServerID(i)) {
				return fmt.Errorf("edge %d->%d has no reverse: %w", i, to, ErrNotLinked)
			}
		}
	}
	return nil
}

// Fingerprint returns a digest of the whole topology. Two networks with the
// same servers, stats, services and edges in the same order share it.
func (n *Network) Fingerprint() string {
	h, _ := blake2b.New256(nil)
	for i := range n.servers {
		s := &n.servers[i]
		fmt.Fprintf(h, "%d|%s|%s|%d|%d|%d|", s.ID, s.Name, s.Type, s.Security, s.Money, s.SubnetID)
		for _, to := range s.Links {
			fmt.Fprintf(h, "l%d,", to)
		}
		for _, svc := range s.Services {
			fmt.Fprintf(h, "s%d/%s/%d,", svc.Port, svc.Name, svc.VulnLevel)
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
