package generator

import "math"

// Params controls the shape of a generated network. Every range is
// inclusive; a range with Max <= Min always yields Min.
type Params struct {
	ISPCount     int `yaml:"isp_count"`
	AreasMin     int `yaml:"areas_min"`
	AreasMax     int `yaml:"areas_max"`
	NeighMin     int `yaml:"neigh_min"`
	NeighMax     int `yaml:"neigh_max"`
	BuildingsMin int `yaml:"buildings_min"`
	BuildingsMax int `yaml:"buildings_max"`
	FloorsMin    int `yaml:"floors_per_building_min"`
	FloorsMax    int `yaml:"floors_per_building_max"`
	RoutersMin   int `yaml:"routers_per_building_min"`
	RoutersMax   int `yaml:"routers_per_building_max"`
	UsersMin     int `yaml:"users_per_router_min"`
	UsersMax     int `yaml:"users_per_router_max"`

	// InterRouterLinkDensity is the probability that two router-like
	// servers get an extra link in the mesh pass.
	InterRouterLinkDensity float64 `yaml:"inter_router_link_density"`
	// PublicDMZFraction is accepted for compatibility and currently unused.
	PublicDMZFraction float64 `yaml:"public_dmz_fraction"`
}

// CityParams returns the default city-sized parameter set
func CityParams() Params {
	return Params{
		ISPCount:               1,
		AreasMin:               1,
		AreasMax:               2,
		NeighMin:               3,
		NeighMax:               6,
		BuildingsMin:           4,
		BuildingsMax:           8,
		FloorsMin:              1,
		FloorsMax:              2,
		RoutersMin:             1,
		RoutersMax:             3,
		UsersMin:               8,
		UsersMax:               24,
		InterRouterLinkDensity: 0.01,
		PublicDMZFraction:      0.02,
	}
}

// Normalize returns a copy where every count <= 0 is replaced by its city
// default. A density outside [0,1] falls back as well; zero is kept.
func (p Params) Normalize() Params {
	d := CityParams()
	orDefault := func(v, def int) int {
		if v <= 0 {
			return def
		}
		return v
	}

	p.ISPCount = orDefault(p.ISPCount, d.ISPCount)
	p.AreasMin = orDefault(p.AreasMin, d.AreasMin)
	p.AreasMax = orDefault(p.AreasMax, d.AreasMax)
	p.NeighMin = orDefault(p.NeighMin, d.NeighMin)
	p.NeighMax = orDefault(p.NeighMax, d.NeighMax)
	p.BuildingsMin = orDefault(p.BuildingsMin, d.BuildingsMin)
	p.BuildingsMax = orDefault(p.BuildingsMax, d.BuildingsMax)
	p.FloorsMin = orDefault(p.FloorsMin, d.FloorsMin)
	p.FloorsMax = orDefault(p.FloorsMax, d.FloorsMax)
	p.RoutersMin = orDefault(p.RoutersMin, d.RoutersMin)
	p.RoutersMax = orDefault(p.RoutersMax, d.RoutersMax)
	p.UsersMin = orDefault(p.UsersMin, d.UsersMin)
	p.UsersMax = orDefault(p.UsersMax, d.UsersMax)

	if !unitInterval(p.InterRouterLinkDensity) {
		p.InterRouterLinkDensity = d.InterRouterLinkDensity
	}
	if !unitInterval(p.PublicDMZFraction) {
		p.PublicDMZFraction = d.PublicDMZFraction
	}
	return p
}

func unitInterval(f float64) bool {
	return !math.IsNaN(f) && f >= 0 && f <= 1
}
