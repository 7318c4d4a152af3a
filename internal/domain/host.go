package domain

// Service is a network service exposed by a server
type Service struct {
	Port      int
	Name      string
	VulnLevel int
}

// catalogEntry is a service template with its relative pick weight
type catalogEntry struct {
	Port     int
	Name     string
	BaseVuln int
	Weight   int
}

// ServiceCatalog is the fixed set of services random hosts are rolled from
var ServiceCatalog = []catalogEntry{
	{Port: 22, Name: "ssh", BaseVuln: 3, Weight: 30},
	{Port: 80, Name: "http", BaseVuln: 4, Weight: 25},
	{Port: 443, Name: "https", BaseVuln: 2, Weight: 20},
	{Port: 3306, Name: "mysql", BaseVuln: 5, Weight: 8},
	{Port: 6379, Name: "redis", BaseVuln: 6, Weight: 5},
	{Port: 11211, Name: "memcached", BaseVuln: 6, Weight: 4},
	{Port: 21, Name: "ftp", BaseVuln: 7, Weight: 5},
	{Port: 8080, Name: "http-alt", BaseVuln: 5, Weight: 3},
}

const (
	// maxRandomServices bounds the services rolled for a random host
	maxRandomServices = 2
	vulnJitter        = 1
)

var catalogWeight = func() int {
	total := 0
	for _, e := range ServiceCatalog {
		total += e.Weight
	}
	return total
}()

// pickService draws a weighted catalog entry and jitters its vulnerability
func pickService(r Rand) Service {
	n := r.IntN(catalogWeight)
	entry := ServiceCatalog[len(ServiceCatalog)-1]
	for _, e := range ServiceCatalog {
		if n < e.Weight {
			entry = e
			break
		}
		n -= e.Weight
	}

	vuln := entry.BaseVuln + r.IntN(2*vulnJitter+1) - vulnJitter
	if vuln < 0 {
		vuln = 0
	}
	return Service{Port: entry.Port, Name: entry.Name, VulnLevel: vuln}
}

// rollServices gives a host between zero and two catalog services.
// A second pick on an already exposed port is dropped, not re-rolled.
func rollServices(s *Server, r Rand) {
	count := r.IntN(maxRandomServices + 1)
	for i := 0; i < count; i++ {
		svc := pickService(r)
		if s.HasService(svc.Port) {
			continue
		}
		s.AddService(svc)
	}
}

// GenerateRandomHost creates a host with random stats and services
func (n *Network) GenerateRandomHost(name string) (ServerID, error) {
	id, err := n.CreateNode(name)
	if err != nil {
		return InvalidID, err
	}
	s := &n.servers[id]
	s.Type = ServerTypeHost
	rollServices(s, n.rng)
	return id, nil
}
