// Package domain defines the core types of the hackterm network.
//
// # Core Types
//
// Server is one machine in the network: identity, gameplay stats (security,
// money), a role classification, up to four exposed services and up to
// sixteen outgoing links.
//
// ServerType is a closed enumeration with a stable lowercase string form
// used on disk. Role names from older save files collapse to "host".
//
// Network is the graph store. It holds at most 512 servers in a dense array
// indexed by ServerID and owns the random source used to roll stats.
//
// # Links
//
// Edges are directed. Bidirectional connectivity is two edges, and
// LinkBidirectional writes both or neither.
//
// # Errors
//
// Operations return wrapped sentinel errors (ErrNotFound, ErrNotLinked, ...).
// CodeOf maps them to the result codes shown to players and scripts.
//
// # Design Principles
//
// - No I/O and no logging
// - Single owner, no locking
// - Capacity limits are enforced at every mutation
package domain
