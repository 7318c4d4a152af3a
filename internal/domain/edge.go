package domain

import "fmt"

// MaxLinks is the maximum number of outgoing edges per server
const MaxLinks = 16

// HasLink reports whether the directed edge from->to exists
func (n *Network) HasLink(from, to ServerID) bool {
	s, ok := n.Server(from)
	if !ok {
		return false
	}
	for _, l := range s.Links {
		if l == to {
			return true
		}
	}
	return false
}

// LinkCapacity returns how many more edges a server can take
func (n *Network) LinkCapacity(id ServerID) int {
	s, ok := n.Server(id)
	if !ok {
		return 0
	}
	return MaxLinks - len(s.Links)
}

// Neighbors returns the outgoing edges of a server
func (n *Network) Neighbors(id ServerID) []ServerID {
	s, ok := n.Server(id)
	if !ok {
		return nil
	}
	return s.Links
}

// AddLink adds the directed edge from->to. Adding an existing edge is a no-op.
func (n *Network) AddLink(from, to ServerID) error {
	if err := n.checkEndpoints(from, to); err != nil {
		return err
	}
	if n.HasLink(from, to) {
		return nil
	}
	s := &n.servers[from]
	if len(s.Links) >= MaxLinks {
		return fmt.Errorf("link %d->%d: %w", from, to, ErrCapacityExceeded)
	}
	s.Links = append(s.Links, to)
	return nil
}

// LinkBidirectional adds a->b and b->a. Both endpoints are checked before
// either edge is written, so a failure leaves the network unchanged.
func (n *Network) LinkBidirectional(a, b ServerID) error {
	if err := n.checkEndpoints(a, b); err != nil {
		return err
	}
	if !n.HasLink(a, b) && n.LinkCapacity(a) == 0 {
		return fmt.Errorf("link %d<->%d: server %d full: %w", a, b, a, ErrCapacityExceeded)
	}
	if !n.HasLink(b, a) && n.LinkCapacity(b) == 0 {
		return fmt.Errorf("link %d<->%d: server %d full: %w", a, b, b, ErrCapacityExceeded)
	}
	if err := n.AddLink(a, b); err != nil {
		return err
	}
	return n.AddLink(b, a)
}

func (n *Network) checkEndpoints(from, to ServerID) error {
	if from == to {
		return fmt.Errorf("link %d to itself: %w", from, ErrInvalidArgument)
	}
	if !n.Valid(from) || !n.Valid(to) {
		return fmt.Errorf("link %d->%d: %w", from, to, ErrNotFound)
	}
	return nil
}
