package domain

import "strings"

// ServerID is a dense index into a Network, assigned at creation time.
type ServerID int

// InvalidID marks the absence of a server (e.g. an unset subnet).
const InvalidID ServerID = -1

const (
	// MaxNameLen is the longest name a server keeps; longer names are truncated.
	MaxNameLen = 31
	// MaxServices is the maximum number of services a server exposes.
	MaxServices = 4
	// MaxServiceNameLen is the longest service name kept.
	MaxServiceNameLen = 15
)

// ServerType classifies a server by its role in the topology
type ServerType int

const (
	ServerTypeUnknown ServerType = iota
	ServerTypeISP
	ServerTypeArea
	ServerTypeNeighborhood
	ServerTypeBuilding
	ServerTypeFloor
	ServerTypeRouter
	ServerTypeTorSwitch
	ServerTypeRack
	ServerTypeBackbone
	ServerTypeUser
	ServerTypeHost
)

var serverTypeNames = [...]string{
	ServerTypeUnknown:      "unknown",
	ServerTypeISP:          "isp",
	ServerTypeArea:         "area",
	ServerTypeNeighborhood: "neighborhood",
	ServerTypeBuilding:     "building",
	ServerTypeFloor:        "floor",
	ServerTypeRouter:       "router",
	ServerTypeTorSwitch:    "tor-switch",
	ServerTypeRack:         "rack",
	ServerTypeBackbone:     "backbone",
	ServerTypeUser:         "user",
	ServerTypeHost:         "host",
}

var serverTypesByName = func() map[string]ServerType {
	m := make(map[string]ServerType, len(serverTypeNames))
	for t, name := range serverTypeNames {
		m[name] = ServerType(t)
	}
	return m
}()

// legacyHostAliases are role names written by older save files.
// They all load as hosts.
var legacyHostAliases = map[string]struct{}{
	"server":              {},
	"workstation":         {},
	"pop":                 {},
	"tor":                 {},
	"building_switch":     {},
	"floor_switch":        {},
	"distribution_router": {},
	"access_switch":       {},
	"rack_switch":         {},
	"apartment_router":    {},
}

// String returns the stable lowercase name used on disk
func (t ServerType) String() string {
	if t < 0 || int(t) >= len(serverTypeNames) {
		return serverTypeNames[ServerTypeUnknown]
	}
	return serverTypeNames[t]
}

// ParseServerType converts a type string to a ServerType.
// Legacy role names collapse to ServerTypeHost, anything else unrecognized
// becomes ServerTypeUnknown.
func ParseServerType(s string) ServerType {
	s = strings.ToLower(strings.TrimSpace(s))
	if t, ok := serverTypesByName[s]; ok {
		return t
	}
	if _, ok := legacyHostAliases[s]; ok {
		return ServerTypeHost
	}
	return ServerTypeUnknown
}

// MarshalText implements encoding.TextMarshaler
func (t ServerType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *ServerType) UnmarshalText(text []byte) error {
	*t = ParseServerType(string(text))
	return nil
}

// IsRouterLike reports whether servers of this type take part in mesh links
func (t ServerType) IsRouterLike() bool {
	return t == ServerTypeRouter || t == ServerTypeRack
}

// Server represents one machine in the game network
type Server struct {
	ID       ServerID
	Name     string
	Security int
	Money    int
	Type     ServerType
	// SubnetID points at the building this server belongs to. It is a
	// grouping hint only and is never followed as an edge.
	SubnetID ServerID
	Services []Service
	Links    []ServerID
}

// HasService reports whether the server exposes the given port
func (s *Server) HasService(port int) bool {
	for _, svc := range s.Services {
		if svc.Port == port {
			return true
		}
	}
	return false
}

// AddService appends a service, ignoring it once the server is full
func (s *Server) AddService(svc Service) bool {
	if len(s.Services) >= MaxServices {
		return false
	}
	svc.Name = truncate(svc.Name, MaxServiceNameLen)
	s.Services = append(s.Services, svc)
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
