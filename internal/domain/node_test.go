package domain

import (
	"testing"
)

func TestServerTypeString(t *testing.T) {
	tests := []struct {
		typ  ServerType
		want string
	}{
		{ServerTypeUnknown, "unknown"},
		{ServerTypeISP, "isp"},
		{ServerTypeArea, "area"},
		{ServerTypeNeighborhood, "neighborhood"},
		{ServerTypeBuilding, "building"},
		{ServerTypeFloor, "floor"},
		{ServerTypeRouter, "router"},
		{ServerTypeTorSwitch, "tor-switch"},
		{ServerTypeRack, "rack"},
		{ServerTypeBackbone, "backbone"},
		{ServerTypeUser, "user"},
		{ServerTypeHost, "host"},
		{ServerType(99), "unknown"},
		{ServerType(-3), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("ServerType(%d).String() = %q, want %q", int(tt.typ), got, tt.want)
		}
	}
}

func TestParseServerType(t *testing.T) {
	tests := []struct {
		input string
		want  ServerType
	}{
		{"isp", ServerTypeISP},
		{"router", ServerTypeRouter},
		{"tor-switch", ServerTypeTorSwitch},
		{"  Router ", ServerTypeRouter},
		{"USER", ServerTypeUser},
		{"host", ServerTypeHost},
		{"unknown", ServerTypeUnknown},
		// Legacy aliases
		{"building_switch", ServerTypeHost},
		{"apartment_router", ServerTypeHost},
		{"pop", ServerTypeHost},
		{"tor", ServerTypeHost},
		{"workstation", ServerTypeHost},
		// Unrecognized
		{"mainframe", ServerTypeUnknown},
		{"", ServerTypeUnknown},
	}

	for _, tt := range tests {
		if got := ParseServerType(tt.input); got != tt.want {
			t.Errorf("ParseServerType(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestServerTypeRoundTrip(t *testing.T) {
	for i := range serverTypeNames {
		typ := ServerType(i)
		text, err := typ.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%s): %v", typ, err)
		}
		var back ServerType
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s): %v", text, err)
		}
		if back != typ {
			t.Errorf("round trip of %s gave %s", typ, back)
		}
	}
}

func TestIsRouterLike(t *testing.T) {
	routerLike := map[ServerType]bool{
		ServerTypeRouter: true,
		ServerTypeRack:   true,
	}
	for i := range serverTypeNames {
		typ := ServerType(i)
		if got := typ.IsRouterLike(); got != routerLike[typ] {
			t.Errorf("%s.IsRouterLike() = %v, want %v", typ, got, routerLike[typ])
		}
	}
}

func TestServerAddService(t *testing.T) {
	t.Run("truncates long service names", func(t *testing.T) {
		s := &Server{}
		s.AddService(Service{Port: 1, Name: "a-very-long-service-name"})
		if got := s.Services[0].Name; len(got) != MaxServiceNameLen {
			t.Errorf("expected name of %d chars, got %q", MaxServiceNameLen, got)
		}
	})

	t.Run("refuses services beyond the limit", func(t *testing.T) {
		s := &Server{}
		for i := 0; i < MaxServices; i++ {
			if !s.AddService(Service{Port: i, Name: "svc"}) {
				t.Fatalf("service %d rejected", i)
			}
		}
		if s.AddService(Service{Port: 99, Name: "extra"}) {
			t.Error("expected fifth service to be rejected")
		}
		if len(s.Services) != MaxServices {
			t.Errorf("expected %d services, got %d", MaxServices, len(s.Services))
		}
	})

	t.Run("HasService matches by port", func(t *testing.T) {
		s := &Server{Services: []Service{{Port: 22, Name: "ssh"}}}
		if !s.HasService(22) {
			t.Error("expected port 22 to be exposed")
		}
		if s.HasService(80) {
			t.Error("did not expect port 80 to be exposed")
		}
	})
}

func TestGenerateRandomHost(t *testing.T) {
	n := NewNetwork(WithRand(NewRand(7)))

	for i := 0; i < 200; i++ {
		id, err := n.GenerateRandomHost("host")
		if err != nil {
			t.Fatalf("GenerateRandomHost: %v", err)
		}
		s, _ := n.Server(id)
		if s.Type != ServerTypeHost {
			t.Errorf("server %d: type %s, want host", id, s.Type)
		}
		if len(s.Services) > maxRandomServices {
			t.Errorf("server %d: %d services, want at most %d", id, len(s.Services), maxRandomServices)
		}
		ports := map[int]bool{}
		for _, svc := range s.Services {
			if ports[svc.Port] {
				t.Errorf("server %d: duplicate port %d", id, svc.Port)
			}
			ports[svc.Port] = true
			if svc.VulnLevel < 0 {
				t.Errorf("server %d: negative vuln on %s", id, svc.Name)
			}
			if !inCatalog(svc) {
				t.Errorf("server %d: service %+v not from catalog", id, svc)
			}
		}
	}
}

func inCatalog(svc Service) bool {
	for _, e := range ServiceCatalog {
		if e.Port == svc.Port && e.Name == svc.Name {
			return svc.VulnLevel >= e.BaseVuln-vulnJitter && svc.VulnLevel <= e.BaseVuln+vulnJitter
		}
	}
	return false
}
