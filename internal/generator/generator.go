package generator

import (
	"fmt"

	"hackterm/internal/domain"
)

// Observer is notified as the generator builds a network
type Observer interface {
	NodeCreated(t domain.ServerType)
	BranchTruncated(tier domain.ServerType)
	MeshLinked()
}

type nopObserver struct{}

func (nopObserver) NodeCreated(domain.ServerType) {}
func (nopObserver) BranchTruncated(domain.ServerType) {}
func (nopObserver) MeshLinked() {}

// Generator builds tiered city networks:
// ISP -> Area -> Neighborhood -> Building -> [Floor] -> Router -> User
type Generator struct {
	observer Observer
}

// Option configures a Generator
type Option func(*Generator)

// WithObserver reports generation progress to o
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		if o != nil {
			g.observer = o
		}
	}
}

// New creates a generator
func New(opts ...Option) *Generator {
	g := &Generator{observer: nopObserver{}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result summarizes a generation run
type Result struct {
	Servers   int
	MeshLinks int
	// Truncated is set when the network filled up, or a parent ran out of
	// link slots, before every planned server was created.
	Truncated bool
}

// GenerateCity generates a network with CityParams
func (g *Generator) GenerateCity(net *domain.Network, seed uint64) Result {
	return g.Generate(net, CityParams(), seed)
}

// Generate populates net in place. A non-zero seed reseeds the network's
// random source first; zero keeps whatever source it already has.
//
// Generation never fails. When the network reaches capacity the branch
// being built stops and the tree is left truncated but consistent.
func (g *Generator) Generate(net *domain.Network, params Params, seed uint64) Result {
	if seed != 0 {
		net.Seed(seed)
	}

	b := &builder{
		net:      net,
		rng:      net.Rand(),
		p:        params.Normalize(),
		observer: g.observer,
	}

	isps := make([]domain.ServerID, 0, b.p.ISPCount)
	for i := 0; i < b.p.ISPCount; i++ {
		id, ok := b.child(domain.InvalidID, domain.ServerTypeISP, fmt.Sprintf("isp%d", i+1), false)
		if !ok {
			break
		}
		isps = append(isps, id)
	}

	for pi, isp := range isps {
		b.areas(isp, pi+1)
	}

	mesh := g.Augment(net, b.p.InterRouterLinkDensity)

	return Result{
		Servers:   net.Len(),
		MeshLinks: mesh,
		Truncated: b.truncated,
	}
}

type builder struct {
	net       *domain.Network
	rng       domain.Rand
	p         Params
	observer  Observer
	truncated bool
}

// draw picks uniformly from [lo, hi]
func (b *builder) draw(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + b.rng.IntN(hi-lo+1)
}

// child creates a server of the given tier linked both ways to parent.
// It returns false when the branch must stop: the network is full or the
// parent has no link slot left.
func (b *builder) child(parent domain.ServerID, tier domain.ServerType, name string, host bool) (domain.ServerID, bool) {
	if parent != domain.InvalidID && b.net.LinkCapacity(parent) == 0 {
		b.truncate(tier)
		return domain.InvalidID, false
	}

	var (
		id  domain.ServerID
		err error
	)
	if host {
		id, err = b.net.GenerateRandomHost(name)
	} else {
		id, err = b.net.CreateNode(name)
	}
	if err != nil {
		b.truncate(tier)
		return domain.InvalidID, false
	}
	b.net.SetType(id, tier)

	if parent != domain.InvalidID {
		// A fresh server has every slot free and the parent was checked
		// above, so this cannot fail.
		_ = b.net.LinkBidirectional(id, parent)
	}
	b.observer.NodeCreated(tier)
	return id, true
}

func (b *builder) truncate(tier domain.ServerType) {
	b.truncated = true
	b.observer.BranchTruncated(tier)
}

func (b *builder) areas(isp domain.ServerID, p int) {
	count := b.draw(b.p.AreasMin, b.p.AreasMax)
	for a := 1; a <= count; a++ {
		aid, ok := b.child(isp, domain.ServerTypeArea, fmt.Sprintf("area%d_i%d", a, p), false)
		if !ok {
			break
		}
		b.neighborhoods(aid, a, p)
	}
}

func (b *builder) neighborhoods(area domain.ServerID, a, p int) {
	count := b.draw(b.p.NeighMin, b.p.NeighMax)
	for n := 1; n <= count; n++ {
		nid, ok := b.child(area, domain.ServerTypeNeighborhood, fmt.Sprintf("neigh%d_a%d_p%d", n, a, p), false)
		if !ok {
			break
		}
		b.buildings(nid, n, a, p)
	}
}

func (b *builder) buildings(neigh domain.ServerID, n, a, p int) {
	count := b.draw(b.p.BuildingsMin, b.p.BuildingsMax)
	for i := 1; i <= count; i++ {
		bid, ok := b.child(neigh, domain.ServerTypeBuilding, fmt.Sprintf("bld%d_n%d_a%d_p%d", i, n, a, p), false)
		if !ok {
			break
		}
		b.building(bid, fmt.Sprintf("b%d_n%d_a%d_p%d", i, n, a, p))
	}
}

// building fills one building. With at most one floor the floor tier is
// skipped and routers hang off the building itself.
func (b *builder) building(bid domain.ServerID, path string) {
	floors := b.draw(b.p.FloorsMin, b.p.FloorsMax)
	if floors <= 1 {
		b.routers(bid, bid, "rtr_"+path)
		return
	}

	for f := 1; f <= floors; f++ {
		fid, ok := b.child(bid, domain.ServerTypeFloor, fmt.Sprintf("floor%d_%s", f, path), false)
		if !ok {
			break
		}
		b.routers(fid, bid, fmt.Sprintf("rtr_floor%d_%s", f, path))
	}
}

// routers attaches routers to parent. Routers always record the building
// as their subnet, whether or not a floor sits in between.
func (b *builder) routers(parent, building domain.ServerID, prefix string) {
	count := b.draw(b.p.RoutersMin, b.p.RoutersMax)
	for r := 1; r <= count; r++ {
		rid, ok := b.child(parent, domain.ServerTypeRouter, fmt.Sprintf("%s_r%d", prefix, r), false)
		if !ok {
			break
		}
		b.net.SetSubnet(rid, building)
		b.users(rid, building)
	}
}

func (b *builder) users(router, building domain.ServerID) {
	count := b.draw(b.p.UsersMin, b.p.UsersMax)
	for u := 0; u < count; u++ {
		uid, ok := b.child(router, domain.ServerTypeUser, fmt.Sprintf("usr%d", b.net.Len()+1), true)
		if !ok {
			break
		}
		b.net.SetSubnet(uid, building)
	}
}
