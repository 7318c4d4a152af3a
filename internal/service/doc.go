// Package service implements the game session.
//
// A Session exclusively owns one network together with the player's
// cursor (home and current server). It answers the connectivity queries
// used by the command layer, and orchestrates generation, save/load and
// snapshot archiving.
//
// # Result codes
//
// Every failing operation returns an error wrapping one of the domain
// sentinels. Callers translate it with domain.CodeOf; the session itself
// never prints anything.
//
// # Event System
//
// State changes are published on an EventBus so a front end can refresh
// without polling. Publishing never blocks: slow subscribers miss events.
//
// Sessions are not safe for concurrent use.
package service
