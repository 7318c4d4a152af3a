// Package generator builds procedural city networks.
//
// A network is grown tier by tier: ISPs, areas, neighborhoods, buildings,
// optional floors, routers and finally user machines. Each tier's fan-out
// is drawn uniformly from its configured range. After the tree is built a
// mesh pass adds occasional extra links between routers.
//
// All randomness comes from the network's own source, so a fixed seed
// reproduces the same topology.
package generator
