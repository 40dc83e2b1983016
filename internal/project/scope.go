package project

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Scope is one [scopes.<name>] entry in forge.toml.
type Scope struct {
	Owns     []string `toml:"owns"`
	API      string   `toml:"api"`
	Upstream []string `toml:"upstream"`
}

// ScopeTable maps scope names to the files they own. A nil table is valid
// and owns nothing.
type ScopeTable struct {
	Scopes map[string]Scope
}

// forgeConfig is the subset of forge.toml the compiler reads.
type forgeConfig struct {
	Scopes map[string]Scope `toml:"scopes"`
}

// LoadScopes parses the scope table out of forge.toml. A missing file
// returns a nil table and no error.
func LoadScopes(path string) (*ScopeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseScopes(data)
}

// ParseScopes decodes forge.toml content into a scope table.
func ParseScopes(data []byte) (*ScopeTable, error) {
	var cfg forgeConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	return &ScopeTable{Scopes: cfg.Scopes}, nil
}

// Owns returns the files owned by the named scope, in declared order.
func (t *ScopeTable) Owns(scope string) []string {
	if t == nil || scope == "" {
		return nil
	}
	return t.Scopes[scope].Owns
}

// Resolve returns the ordered files owned by the feature's scope. It never
// fails: an empty scope, an unknown scope, or a nil table all yield nil.
func (t *ScopeTable) Resolve(f Feature) []string {
	return t.Owns(f.Scope)
}
