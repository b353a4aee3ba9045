package permissions

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	models "github.com/NIKHILENIGMA/pikzee-sub000/internal/domain/models/assets"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Capability names used by the asset engine
const (
	CapAssetsRead  = "assets.read"
	CapAssetsWrite = "assets.write"
)

// roleConfig mirrors the YAML shape
type roleConfig struct {
	Roles []struct {
		Name         string   `yaml:"name"`
		Capabilities []string `yaml:"capabilities"`
	} `yaml:"roles"`
}

// Registry maps workspace roles to their capability sets
type Registry struct {
	roles map[models.Role]map[string]bool
	mu    sync.RWMutex
}

// NewRegistry creates a registry from the embedded role matrix
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/roles.yaml")
	if err != nil {
		return nil, fmt.Errorf("read role matrix: %w", err)
	}

	var cfg roleConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal role matrix: %w", err)
	}

	r := &Registry{roles: make(map[models.Role]map[string]bool)}
	for _, role := range cfg.Roles {
		caps := make(map[string]bool, len(role.Capabilities))
		for _, c := range role.Capabilities {
			caps[c] = true
		}
		r.roles[models.Role(role.Name)] = caps
	}

	return r, nil
}

// Can reports whether a role carries a capability. Unknown roles have no
// capabilities.
func (r *Registry) Can(role models.Role, capability string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.roles[role]
	if !ok {
		return false
	}
	return caps[capability]
}

// Roles returns the configured role names
func (r *Registry) Roles() []models.Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Role, 0, len(r.roles))
	for role := range r.roles {
		out = append(out, role)
	}
	return out
}
