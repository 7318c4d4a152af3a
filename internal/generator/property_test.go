package generator

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"hackterm/internal/domain"
)

// TestTopologyInvariants checks the graph invariants for arbitrary
// parameter sets, including ones far beyond the network capacity.
func TestTopologyInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)

	paramsGen := func(isps, areas, neigh, blds, floors, routers, users int, density float64) Params {
		return Params{
			ISPCount:               isps,
			AreasMin:               1,
			AreasMax:               areas,
			NeighMin:               1,
			NeighMax:               neigh,
			BuildingsMin:           1,
			BuildingsMax:           blds,
			FloorsMin:              1,
			FloorsMax:              floors,
			RoutersMin:             1,
			RoutersMax:             routers,
			UsersMin:               1,
			UsersMax:               users,
			InterRouterLinkDensity: density,
		}
	}

	run := func(seed uint64, isps, areas, neigh, blds, floors, routers, users int, density float64) *domain.Network {
		net := domain.NewNetwork()
		New().Generate(net, paramsGen(isps, areas, neigh, blds, floors, routers, users, density), seed)
		return net
	}

	properties.Property("store stays within capacity and structurally valid", prop.ForAll(
		func(seed uint64, isps, areas, neigh, blds, floors, routers, users int, density float64) bool {
			net := run(seed, isps, areas, neigh, blds, floors, routers, users, density)
			return net.Len() <= domain.MaxServers && net.Validate() == nil
		},
		gen.UInt64Range(1, 1<<40),
		gen.IntRange(1, 3),
		gen.IntRange(1, 4),
		gen.IntRange(1, 6),
		gen.IntRange(1, 10),
		gen.IntRange(1, 3),
		gen.IntRange(1, 4),
		gen.IntRange(1, 30),
		gen.Float64Range(0, 1),
	))

	properties.Property("every edge is reciprocal", prop.ForAll(
		func(seed uint64, isps, areas, neigh, blds, floors, routers, users int, density float64) bool {
			net := run(seed, isps, areas, neigh, blds, floors, routers, users, density)
			return net.CheckReciprocal() == nil
		},
		gen.UInt64Range(1, 1<<40),
		gen.IntRange(1, 3),
		gen.IntRange(1, 4),
		gen.IntRange(1, 6),
		gen.IntRange(1, 10),
		gen.IntRange(1, 3),
		gen.IntRange(1, 4),
		gen.IntRange(1, 30),
		gen.Float64Range(0, 1),
	))

	properties.Property("same seed yields the same topology", prop.ForAll(
		func(seed uint64, users int, density float64) bool {
			a := run(seed, 1, 2, 3, 4, 2, 3, users, density)
			b := run(seed, 1, 2, 3, 4, 2, 3, users, density)
			return a.Fingerprint() == b.Fingerprint()
		},
		gen.UInt64Range(1, 1<<40),
		gen.IntRange(1, 30),
		gen.Float64Range(0, 1),
	))

	properties.Property("mesh links only join router-like servers", prop.ForAll(
		func(seed uint64, density float64) bool {
			net := run(seed, 1, 1, 2, 3, 2, 3, 2, density)
			for _, s := range net.Servers() {
				for _, to := range s.Links {
					peer, _ := net.Server(to)
					if s.Type.IsRouterLike() && peer.Type.IsRouterLike() {
						continue
					}
					// Any other edge must be a parent/child edge between
					// adjacent tiers, never user-user or isp-router.
					if s.Type == peer.Type {
						return false
					}
				}
			}
			return true
		},
		gen.UInt64Range(1, 1<<40),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
