package generator

import "hackterm/internal/domain"

// Augment adds extra links between router-like servers so the network is
// not a strict tree. Every unordered pair of router-like servers is linked
// with probability density, subject to the usual link limits. It returns
// the number of new bidirectional links.
//
// Subnet ids are not consulted. Pairs inside the same building are treated
// exactly like pairs across buildings.
func (g *Generator) Augment(net *domain.Network, density float64) int {
	servers := net.Servers()
	rng := net.Rand()
	added := 0

	for a := 0; a < len(servers); a++ {
		if !servers[a].Type.IsRouterLike() {
			continue
		}
		for b := a + 1; b < len(servers); b++ {
			if !servers[b].Type.IsRouterLike() {
				continue
			}
			if rng.Float64() >= density {
				continue
			}

			from, to := domain.ServerID(a), domain.ServerID(b)
			if net.HasLink(from, to) && net.HasLink(to, from) {
				continue
			}
			if err := net.LinkBidirectional(from, to); err != nil {
				continue
			}
			added++
			g.observer.MeshLinked()
		}
	}
	return added
}
