package codec

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"hackterm/internal/domain"
)

// buildNetwork returns a small hand-wired network:
// 0(isp) - 1(router) - 2(user, ssh)
func buildNetwork(t *testing.T) *domain.Network {
	t.Helper()
	net := domain.NewNetwork(domain.WithRand(domain.NewRand(3)))
	for _, name := range []string{"isp1", "rtr1", "usr3"} {
		if _, err := net.CreateNode(name); err != nil {
			t.Fatalf("CreateNode(%q): %v", name, err)
		}
	}
	net.SetType(0, domain.ServerTypeISP)
	net.SetType(1, domain.ServerTypeRouter)
	net.SetType(2, domain.ServerTypeUser)
	net.SetSubnet(2, 1)
	if err := net.LinkBidirectional(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := net.LinkBidirectional(1, 2); err != nil {
		t.Fatal(err)
	}
	s, _ := net.Server(2)
	s.Services = nil
	s.AddService(domain.Service{Port: 22, Name: "ssh", VulnLevel: 3})
	return net
}

func sortedLinks(s *domain.Server) []domain.ServerID {
	out := append([]domain.ServerID(nil), s.Links...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Codec{NewJSONCodec(), NewYAMLCodec()} {
		t.Run(c.Format(), func(t *testing.T) {
			net := buildNetwork(t)

			var buf bytes.Buffer
			if err := c.Export(Encode(net, 0, 2), &buf); err != nil {
				t.Fatalf("Export: %v", err)
			}
			doc, err := c.Parse(&buf)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			restored, err := doc.Decode()
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			if restored.Network.Len() != net.Len() {
				t.Fatalf("Len() = %d, want %d", restored.Network.Len(), net.Len())
			}
			if restored.Home != 0 || restored.Current != 2 {
				t.Errorf("cursor = (%d, %d), want (0, 2)", restored.Home, restored.Current)
			}
			if got, want := restored.Network.Fingerprint(), net.Fingerprint(); got != want {
				t.Errorf("Fingerprint() = %s, want %s", got, want)
			}
			for _, want := range net.Servers() {
				got, _ := restored.Network.Server(want.ID)
				if got.Name != want.Name || got.Type != want.Type || got.Security != want.Security ||
					got.Money != want.Money || got.SubnetID != want.SubnetID {
					t.Errorf("server %d = %+v, want %+v", want.ID, *got, want)
				}
				if a, b := sortedLinks(got), sortedLinks(&want); len(a) != len(b) {
					t.Errorf("server %d links = %v, want %v", want.ID, a, b)
				}
				if len(got.Services) != len(want.Services) {
					t.Errorf("server %d services = %v, want %v", want.ID, got.Services, want.Services)
				}
			}
		})
	}
}

func TestDecodeSparseAndReordered(t *testing.T) {
	input := `{
		"version": 1,
		"game": {
			"server_count": 3,
			"home_server": 0,
			"current_server": 4,
			"servers": [
				{"id": 4, "name": "far", "type": "router", "links": [0, 4, 9, 0]},
				{"id": 0, "name": "near", "type": "isp", "links": [4]}
			]
		}
	}`

	doc, err := NewJSONCodec().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	restored, err := doc.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	net := restored.Network
	if net.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", net.Len())
	}
	if restored.Current != 4 {
		t.Errorf("Current = %d, want 4", restored.Current)
	}

	far, _ := net.Server(4)
	if len(far.Links) != 1 || far.Links[0] != 0 {
		t.Errorf("far links = %v, want [0]", far.Links)
	}

	gap, _ := net.Server(2)
	if gap.Name != "" || gap.Type != domain.ServerTypeUnknown || len(gap.Links) != 0 {
		t.Errorf("gap server = %+v, want blank", *gap)
	}
	if err := net.CheckReciprocal(); err != nil {
		t.Errorf("CheckReciprocal() = %v", err)
	}
}

func TestDecodeDefaultsAndAliases(t *testing.T) {
	input := `
version: 1
game:
  server_count: 2
  home_server: 7
  current_server: -1
  servers:
    - id: 0
      name: old-box
      type: workstation
    - id: 1
      name: a-very-long-name-that-goes-past-the-limit
      type: something-new
      links: [0]
`
	doc, err := NewYAMLCodec().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	restored, err := doc.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if restored.Home != 0 || restored.Current != 0 {
		t.Errorf("cursor = (%d, %d), want (0, 0)", restored.Home, restored.Current)
	}

	box, _ := restored.Network.Server(0)
	if box.Type != domain.ServerTypeHost {
		t.Errorf("legacy type = %v, want host", box.Type)
	}
	if box.Security != DefaultSecurity || box.Money != DefaultMoney || box.SubnetID != domain.ServerID(DefaultSubnet) {
		t.Errorf("defaults = (%d, %d, %d)", box.Security, box.Money, box.SubnetID)
	}

	long, _ := restored.Network.Server(1)
	if long.Type != domain.ServerTypeUnknown {
		t.Errorf("unknown type = %v, want unknown", long.Type)
	}
	if len(long.Name) != domain.MaxNameLen {
		t.Errorf("name length = %d, want %d", len(long.Name), domain.MaxNameLen)
	}
}

func TestDecodeErrors(t *testing.T) {
	id := func(v int) *int { return &v }

	tests := []struct {
		name string
		doc  Document
	}{
		{
			name: "zero server count",
			doc:  Document{Game: GameDocument{ServerCount: 0, Servers: []ServerDocument{{ID: id(0)}}}},
		},
		{
			name: "server count above capacity",
			doc:  Document{Game: GameDocument{ServerCount: domain.MaxServers + 1, Servers: []ServerDocument{{ID: id(0)}}}},
		},
		{
			name: "no servers",
			doc:  Document{Game: GameDocument{ServerCount: 1}},
		},
		{
			name: "missing id",
			doc:  Document{Game: GameDocument{ServerCount: 1, Servers: []ServerDocument{{Name: "x"}}}},
		},
		{
			name: "id out of range",
			doc:  Document{Game: GameDocument{ServerCount: 1, Servers: []ServerDocument{{ID: id(domain.MaxServers)}}}},
		},
		{
			name: "duplicate id",
			doc:  Document{Game: GameDocument{ServerCount: 2, Servers: []ServerDocument{{ID: id(1)}, {ID: id(1)}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.Decode()
			if !errors.Is(err, domain.ErrFile) {
				t.Errorf("Decode() error = %v, want ErrFile", err)
			}
			if domain.CodeOf(err) != domain.CodeFileError {
				t.Errorf("CodeOf() = %s, want %s", domain.CodeOf(err), domain.CodeFileError)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := NewJSONCodec().Parse(strings.NewReader("{not json")); err == nil {
		t.Error("JSON Parse() error = nil, want error")
	}
	if _, err := NewYAMLCodec().Parse(strings.NewReader("game: [unclosed")); err == nil {
		t.Error("YAML Parse() error = nil, want error")
	}
}

func TestForPath(t *testing.T) {
	tests := map[string]string{
		"save.json":      "json",
		"save.yaml":      "yaml",
		"SAVE.YML":       "yaml",
		"save":           "json",
		"dir.yaml/state": "json",
	}
	for path, want := range tests {
		if got := ForPath(path).Format(); got != want {
			t.Errorf("ForPath(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestExporterFor(t *testing.T) {
	for _, name := range []string{"json", "yaml", "ansible"} {
		if _, err := ExporterFor(name); err != nil {
			t.Errorf("ExporterFor(%q) error = %v", name, err)
		}
	}
	if _, err := ExporterFor("xml"); err == nil {
		t.Error("ExporterFor(xml) error = nil, want error")
	}
}

func TestAnsibleExport(t *testing.T) {
	net := buildNetwork(t)

	var buf bytes.Buffer
	if err := NewAnsibleCodec().Export(Encode(net, 0, 0), &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	var inv map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &inv); err != nil {
		t.Fatalf("inventory is not valid YAML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"router:", "rtr1:", "usr3:", "subnet: rtr1", "port: 22"} {
		if !strings.Contains(out, want) {
			t.Errorf("inventory missing %q:\n%s", want, out)
		}
	}
}
