package codec

import (
	"fmt"

	"hackterm/internal/domain"
)

// Version is the save format version written by this package
const Version = 1

// Document is the on-disk representation of a game
type Document struct {
	Version int          `json:"version" yaml:"version"`
	Game    GameDocument `json:"game" yaml:"game"`
}

// GameDocument holds the network and the session cursor
type GameDocument struct {
	ServerCount   int              `json:"server_count" yaml:"server_count"`
	HomeServer    int              `json:"home_server" yaml:"home_server"`
	CurrentServer int              `json:"current_server" yaml:"current_server"`
	Servers       []ServerDocument `json:"servers" yaml:"servers"`
}

// ServerDocument is one server. Optional fields are pointers so a missing
// value can be told apart from zero.
type ServerDocument struct {
	ID       *int              `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Security *int              `json:"security,omitempty" yaml:"security,omitempty"`
	Money    *int              `json:"money,omitempty" yaml:"money,omitempty"`
	Type     string            `json:"type,omitempty" yaml:"type,omitempty"`
	Subnet   *int              `json:"subnet,omitempty" yaml:"subnet,omitempty"`
	Links    []int             `json:"links" yaml:"links"`
	Services []ServiceDocument `json:"services" yaml:"services"`
}

// ServiceDocument is one exposed service
type ServiceDocument struct {
	Name string `json:"name" yaml:"name"`
	Port int    `json:"port" yaml:"port"`
	Vuln int    `json:"vuln" yaml:"vuln"`
}

// Defaults applied to fields missing from a loaded server
const (
	DefaultSecurity = 1
	DefaultMoney    = 0
	DefaultSubnet   = int(domain.InvalidID)
)

// Restored is a network rebuilt from a document
type Restored struct {
	Network *domain.Network
	Home    domain.ServerID
	Current domain.ServerID
}

// Encode captures a network and cursor as a document
func Encode(net *domain.Network, home, current domain.ServerID) *Document {
	servers := net.Servers()
	doc := &Document{
		Version: Version,
		Game: GameDocument{
			ServerCount:   len(servers),
			HomeServer:    int(home),
			CurrentServer: int(current),
			Servers:       make([]ServerDocument, 0, len(servers)),
		},
	}

	for i := range servers {
		s := &servers[i]
		sd := ServerDocument{
			ID:       intPtr(int(s.ID)),
			Name:     s.Name,
			Security: intPtr(s.Security),
			Money:    intPtr(s.Money),
			Type:     s.Type.String(),
			Subnet:   intPtr(int(s.SubnetID)),
			Links:    make([]int, 0, len(s.Links)),
			Services: make([]ServiceDocument, 0, len(s.Services)),
		}
		for _, to := range s.Links {
			sd.Links = append(sd.Links, int(to))
		}
		for _, svc := range s.Services {
			sd.Services = append(sd.Services, ServiceDocument{Name: svc.Name, Port: svc.Port, Vuln: svc.VulnLevel})
		}
		doc.Game.Servers = append(doc.Game.Servers, sd)
	}

	return doc
}

// Decode rebuilds the network described by the document.
//
// Servers are placed by their explicit id, so the array may be sparse or
// out of order; the resulting count is the highest id plus one and gaps
// become blank servers. Links to missing servers, self links, duplicates
// and anything past the per-server limits are dropped.
func (d *Document) Decode(opts ...domain.Option) (*Restored, error) {
	g := &d.Game
	if g.ServerCount <= 0 || g.ServerCount > domain.MaxServers {
		return nil, fmt.Errorf("server_count %d out of range: %w", g.ServerCount, domain.ErrFile)
	}
	if len(g.Servers) == 0 {
		return nil, fmt.Errorf("no servers: %w", domain.ErrFile)
	}

	byID := make(map[int]*ServerDocument, len(g.Servers))
	count := 0
	for i := range g.Servers {
		sd := &g.Servers[i]
		if sd.ID == nil {
			return nil, fmt.Errorf("server at index %d has no id: %w", i, domain.ErrFile)
		}
		id := *sd.ID
		if id < 0 || id >= domain.MaxServers {
			return nil, fmt.Errorf("server id %d out of range: %w", id, domain.ErrFile)
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("duplicate server id %d: %w", id, domain.ErrFile)
		}
		byID[id] = sd
		if id+1 > count {
			count = id + 1
		}
	}

	servers := make([]domain.Server, count)
	for id := range servers {
		servers[id] = blankServer(domain.ServerID(id))
		if sd, ok := byID[id]; ok {
			fillServer(&servers[id], sd, count)
		}
	}

	net, err := domain.RestoreNetwork(servers, opts...)
	if err != nil {
		return nil, fmt.Errorf("rebuild network: %w: %w", err, domain.ErrFile)
	}

	return &Restored{
		Network: net,
		Home:    clampID(g.HomeServer, count),
		Current: clampID(g.CurrentServer, count),
	}, nil
}

func blankServer(id domain.ServerID) domain.Server {
	return domain.Server{
		ID:       id,
		Security: DefaultSecurity,
		Money:    DefaultMoney,
		Type:     domain.ServerTypeUnknown,
		SubnetID: domain.ServerID(DefaultSubnet),
	}
}

func fillServer(s *domain.Server, sd *ServerDocument, count int) {
	s.Name = sd.Name
	if len(s.Name) > domain.MaxNameLen {
		s.Name = s.Name[:domain.MaxNameLen]
	}
	if sd.Security != nil {
		s.Security = *sd.Security
	}
	if sd.Money != nil {
		s.Money = *sd.Money
	}
	if sd.Subnet != nil {
		s.SubnetID = domain.ServerID(*sd.Subnet)
	}
	s.Type = domain.ParseServerType(sd.Type)

	seen := make(map[int]struct{}, len(sd.Links))
	for _, to := range sd.Links {
		if len(s.Links) >= domain.MaxLinks {
			break
		}
		if to < 0 || to >= count || to == int(s.ID) {
			continue
		}
		if _, dup := seen[to]; dup {
			continue
		}
		seen[to] = struct{}{}
		s.Links = append(s.Links, domain.ServerID(to))
	}

	for _, svc := range sd.Services {
		if !s.AddService(domain.Service{Port: svc.Port, Name: svc.Name, VulnLevel: svc.Vuln}) {
			break
		}
	}
}

func clampID(id, count int) domain.ServerID {
	if id < 0 || id >= count {
		return 0
	}
	return domain.ServerID(id)
}

func intPtr(v int) *int {
	return &v
}
