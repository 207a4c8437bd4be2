// Package endpoint reads the endpoints file: the remote services and store
// backends parley talks to, one section per role.
package endpoint

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soyeahso/parley/internal/config"
)

// ErrMalformed is wrapped by errors about unparsable endpoints files.
var ErrMalformed = errors.New("malformed endpoints file")

// Endpoint sections recognised in the endpoints file.
const (
	SectionModel        = "model"
	SectionAction       = "action_endpoint"
	SectionNLG          = "nlg"
	SectionTrackerStore = "tracker_store"
	SectionLockStore    = "lock_store"
	SectionEventBroker  = "event_broker"
)

// Sections lists the endpoint sections in a stable order.
var Sections = []string{
	SectionModel,
	SectionAction,
	SectionNLG,
	SectionTrackerStore,
	SectionLockStore,
	SectionEventBroker,
}

// BasicAuth holds HTTP basic credentials for an endpoint.
type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config describes one remote endpoint or store backend.
// Keys the endpoints file sets beyond the known ones land in Kwargs.
type Config struct {
	URL       string            `yaml:"url,omitempty"`
	Type      string            `yaml:"type,omitempty"`
	Params    map[string]string `yaml:"params,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	BasicAuth *BasicAuth        `yaml:"basic_auth,omitempty"`
	Token     string            `yaml:"token,omitempty"`
	TokenName string            `yaml:"token_name,omitempty"`
	Kwargs    map[string]any    `yaml:"kwargs,omitempty"`
}

// Copy returns a deep-enough copy: maps are cloned, Kwargs values are shared.
func (c *Config) Copy() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Params = maps.Clone(c.Params)
	out.Headers = maps.Clone(c.Headers)
	out.Kwargs = maps.Clone(c.Kwargs)
	if c.BasicAuth != nil {
		ba := *c.BasicAuth
		out.BasicAuth = &ba
	}
	return &out
}

// Kwarg returns a string-valued extra key.
func (c *Config) Kwarg(key string) (string, bool) {
	if c == nil || c.Kwargs == nil {
		return "", false
	}
	v, ok := c.Kwargs[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Available holds every section of an endpoints file. Absent
// sections are nil.
type Available struct {
	Model        *Config
	Action       *Config
	NLG          *Config
	TrackerStore *Config
	LockStore    *Config
	EventBroker  *Config
}

// Get returns the config for a section name.
func (a *Available) Get(section string) *Config {
	if p := a.slot(section); p != nil {
		return *p
	}
	return nil
}

// Set replaces the config for a section name. Unknown sections are ignored.
func (a *Available) Set(section string, cfg *Config) {
	if p := a.slot(section); p != nil {
		*p = cfg
	}
}

func (a *Available) slot(section string) **Config {
	switch section {
	case SectionModel:
		return &a.Model
	case SectionAction:
		return &a.Action
	case SectionNLG:
		return &a.NLG
	case SectionTrackerStore:
		return &a.TrackerStore
	case SectionLockStore:
		return &a.LockStore
	case SectionEventBroker:
		return &a.EventBroker
	}
	return nil
}

// Map returns the configured sections keyed by name.
func (a *Available) Map() map[string]*Config {
	out := make(map[string]*Config)
	for _, s := range Sections {
		if cfg := a.Get(s); cfg != nil {
			out[s] = cfg
		}
	}
	return out
}

// Read reads every known section from file. A missing file or
// an empty path yields empty endpoints.
func Read(file string) (Available, error) {
	var out Available
	raw, err := readEndpointsFile(file)
	if err != nil || raw == nil {
		return out, err
	}
	for _, s := range Sections {
		cfg, err := endpointFromMap(s, raw[s])
		if err != nil {
			return Available{}, err
		}
		out.Set(s, cfg)
	}
	return out, nil
}

// ReadSection reads a single section. It returns nil, nil when the
// file or the section does not exist.
func ReadSection(file, section string) (*Config, error) {
	raw, err := readEndpointsFile(file)
	if err != nil || raw == nil {
		return nil, err
	}
	return endpointFromMap(section, raw[section])
}

func readEndpointsFile(file string) (map[string]any, error) {
	if file == "" {
		return nil, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading endpoints %s: %w", file, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformed, file, err)
	}
	expanded, _ := expandValue(raw).(map[string]any)
	return expanded, nil
}

func endpointFromMap(section string, v any) (*Config, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: section %q must be a mapping", ErrMalformed, section)
	}

	cfg := &Config{}
	rest := make(map[string]any)
	for key, val := range m {
		switch key {
		case "url":
			cfg.URL = fmt.Sprint(val)
		case "type":
			cfg.Type = fmt.Sprint(val)
		case "token":
			cfg.Token = fmt.Sprint(val)
		case "token_name":
			cfg.TokenName = fmt.Sprint(val)
		case "params":
			cfg.Params = stringMap(val)
		case "headers":
			cfg.Headers = stringMap(val)
		case "basic_auth":
			auth := stringMap(val)
			cfg.BasicAuth = &BasicAuth{Username: auth["username"], Password: auth["password"]}
		default:
			rest[key] = val
		}
	}
	if len(rest) > 0 {
		cfg.Kwargs = rest
	}
	return cfg, nil
}

func stringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = fmt.Sprint(val)
	}
	return out
}

// expandValue applies config.ExpandEnvVars to every string in a decoded YAML tree.
func expandValue(v any) any {
	switch t := v.(type) {
	case string:
		return config.ExpandEnvVars(t)
	case map[string]any:
		for k, val := range t {
			t[k] = expandValue(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = expandValue(val)
		}
		return t
	default:
		return v
	}
}
