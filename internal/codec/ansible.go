package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// AnsibleCodec exports a network as an Ansible inventory so scenario
// worlds can be reused by lab tooling. Import is not supported.
type AnsibleCodec struct{}

// NewAnsibleCodec creates a new Ansible codec
func NewAnsibleCodec() *AnsibleCodec {
	return &AnsibleCodec{}
}

// Format returns the codec format identifier
func (c *AnsibleCodec) Format() string {
	return "ansible-inventory"
}

// ansibleInventory represents the Ansible inventory structure
type ansibleInventory struct {
	All ansibleGroup `yaml:"all"`
}

type ansibleGroup struct {
	Children map[string]ansibleGroupDef `yaml:"children,omitempty"`
	Vars     map[string]interface{}     `yaml:"vars,omitempty"`
}

type ansibleGroupDef struct {
	Hosts map[string]ansibleHost `yaml:"hosts,omitempty"`
}

type ansibleHost struct {
	Vars map[string]interface{} `yaml:",inline"`
}

// Export writes one inventory group per server type. Hosts are keyed by
// server name; unnamed or duplicate names fall back to srv<id>.
func (c *AnsibleCodec) Export(doc *Document, w io.Writer) error {
	inv := ansibleInventory{
		All: ansibleGroup{
			Children: make(map[string]ansibleGroupDef),
			Vars: map[string]interface{}{
				"hackterm_home":    doc.Game.HomeServer,
				"hackterm_current": doc.Game.CurrentServer,
			},
		},
	}

	hostNames := make(map[int]string, len(doc.Game.Servers))
	taken := make(map[string]bool, len(doc.Game.Servers))
	for _, sd := range doc.Game.Servers {
		if sd.ID == nil {
			continue
		}
		name := sd.Name
		if name == "" || taken[name] {
			name = fmt.Sprintf("srv%d", *sd.ID)
		}
		taken[name] = true
		hostNames[*sd.ID] = name
	}

	for _, sd := range doc.Game.Servers {
		if sd.ID == nil {
			continue
		}
		groupName := sd.Type
		if groupName == "" {
			groupName = "unknown"
		}
		group, ok := inv.All.Children[groupName]
		if !ok {
			group = ansibleGroupDef{Hosts: make(map[string]ansibleHost)}
			inv.All.Children[groupName] = group
		}

		vars := map[string]interface{}{
			"hackterm_id": *sd.ID,
		}
		if sd.Security != nil {
			vars["security"] = *sd.Security
		}
		if sd.Money != nil {
			vars["money"] = *sd.Money
		}
		if sd.Subnet != nil && *sd.Subnet >= 0 {
			if subnet, ok := hostNames[*sd.Subnet]; ok {
				vars["subnet"] = subnet
			}
		}
		if len(sd.Links) > 0 {
			links := make([]string, 0, len(sd.Links))
			for _, to := range sd.Links {
				if peer, ok := hostNames[to]; ok {
					links = append(links, peer)
				}
			}
			vars["links"] = links
		}
		if len(sd.Services) > 0 {
			services := make([]map[string]interface{}, 0, len(sd.Services))
			for _, svc := range sd.Services {
				services = append(services, map[string]interface{}{
					"name": svc.Name,
					"port": svc.Port,
					"vuln": svc.Vuln,
				})
			}
			vars["services"] = services
		}

		group.Hosts[hostNames[*sd.ID]] = ansibleHost{Vars: vars}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&inv); err != nil {
		return fmt.Errorf("failed to encode Ansible inventory: %w", err)
	}

	return nil
}
