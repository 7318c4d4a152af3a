package config

// Config is the root configuration structure
type Config struct {
	Version   int             `yaml:"version" validate:"gte=0"`
	Seed      uint64          `yaml:"seed,omitempty"` // 0 = unseeded
	SavePath  string          `yaml:"save_path"`
	LogLevel  string          `yaml:"log_level" validate:"omitempty,oneof=panic fatal error warn warning info debug trace"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Generator GeneratorConfig `yaml:"generator"`
}

// ArchiveConfig configures the snapshot database
type ArchiveConfig struct {
	Path string `yaml:"path"` // empty disables snapshots
}

// GeneratorConfig mirrors generator.Params. Every field is optional;
// unset fields take the city default.
type GeneratorConfig struct {
	ISPCount               *int     `yaml:"isp_count,omitempty" validate:"omitempty,gte=0"`
	AreasMin               *int     `yaml:"areas_min,omitempty" validate:"omitempty,gte=0"`
	AreasMax               *int     `yaml:"areas_max,omitempty" validate:"omitempty,gte=0"`
	NeighMin               *int     `yaml:"neigh_min,omitempty" validate:"omitempty,gte=0"`
	NeighMax               *int     `yaml:"neigh_max,omitempty" validate:"omitempty,gte=0"`
	BuildingsMin           *int     `yaml:"buildings_min,omitempty" validate:"omitempty,gte=0"`
	BuildingsMax           *int     `yaml:"buildings_max,omitempty" validate:"omitempty,gte=0"`
	FloorsMin              *int     `yaml:"floors_per_building_min,omitempty" validate:"omitempty,gte=0"`
	FloorsMax              *int     `yaml:"floors_per_building_max,omitempty" validate:"omitempty,gte=0"`
	RoutersMin             *int     `yaml:"routers_per_building_min,omitempty" validate:"omitempty,gte=0"`
	RoutersMax             *int     `yaml:"routers_per_building_max,omitempty" validate:"omitempty,gte=0"`
	UsersMin               *int     `yaml:"users_per_router_min,omitempty" validate:"omitempty,gte=0"`
	UsersMax               *int     `yaml:"users_per_router_max,omitempty" validate:"omitempty,gte=0"`
	InterRouterLinkDensity *float64 `yaml:"inter_router_link_density,omitempty" validate:"omitempty,gte=0,lte=1"`
	PublicDMZFraction      *float64 `yaml:"public_dmz_fraction,omitempty" validate:"omitempty,gte=0,lte=1"` // currently inert
}
