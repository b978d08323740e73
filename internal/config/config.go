package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds settings loaded from briefly.yml.
type ProjectConfig struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	LLM      LLMConfig      `yaml:"llm,omitempty"`
	Gateway  GatewayConfig  `yaml:"gateway,omitempty"`
	Sources  SourcesConfig  `yaml:"sources,omitempty"`
	Timeouts TimeoutsConfig `yaml:"timeouts,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// LLMConfig configures the text-completion client.
type LLMConfig struct {
	Model       string  `yaml:"model,omitempty"`
	BaseURL     string  `yaml:"baseURL,omitempty"`
	APIKeyEnv   string  `yaml:"apiKeyEnv,omitempty"`
	Temperature float32 `yaml:"temperature,omitempty"`
}

// APIKey resolves the API key from the configured environment variable.
func (c LLMConfig) APIKey() string {
	name := c.APIKeyEnv
	if name == "" {
		name = "OPENAI_API_KEY"
	}
	return os.Getenv(name)
}

// GatewayConfig points at the MCP tool gateway that fronts the providers.
type GatewayConfig struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	UserID   string `yaml:"userID,omitempty"`
}

// SourcesConfig holds the per-source fetch parameters.
type SourcesConfig struct {
	GitHub GitHubConfig `yaml:"github,omitempty"`
	Jira   JiraConfig   `yaml:"jira,omitempty"`
	Notes  NotesConfig  `yaml:"notes,omitempty"`
}

// GitHubConfig selects the repository whose pull requests are summarized.
type GitHubConfig struct {
	Owner string `yaml:"owner,omitempty"`
	Repo  string `yaml:"repo,omitempty"`
	State string `yaml:"state,omitempty"`
}

// JiraConfig filters the issues pulled from the tracker.
type JiraConfig struct {
	Project  string   `yaml:"project,omitempty"`
	Assignee string   `yaml:"assignee,omitempty"`
	Statuses []string `yaml:"statuses,omitempty"`
	Limit    int      `yaml:"limit,omitempty"`
}

// NotesConfig selects the notes backend and page.
type NotesConfig struct {
	Title     string `yaml:"title,omitempty"`
	Backend   string `yaml:"backend,omitempty"` // "gateway" or "local"
	DBPath    string `yaml:"dbPath,omitempty"`
	ImportDir string `yaml:"importDir,omitempty"`
}

// Notes backends.
const (
	NotesBackendGateway = "gateway"
	NotesBackendLocal   = "local"
)

// TimeoutsConfig holds per-call timeouts as Go duration strings.
type TimeoutsConfig struct {
	Classify   string `yaml:"classify,omitempty"`
	Fetch      string `yaml:"fetch,omitempty"`
	Synthesize string `yaml:"synthesize,omitempty"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default timeouts applied when the config leaves them empty or invalid.
const (
	DefaultClassifyTimeout   = 20 * time.Second
	DefaultFetchTimeout      = 15 * time.Second
	DefaultSynthesizeTimeout = 30 * time.Second
)

// Load attempts to read briefly.yml or briefly.yaml from the given
// directory. Returns a defaulted config (not an error) if no config file
// exists; any other read failure is returned.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"briefly.yml", "briefly.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		cfg.ApplyDefaults()
		return &cfg, nil
	}
	cfg := Defaults()
	return &cfg, nil
}

// Defaults returns a config with every default filled in.
func Defaults() ProjectConfig {
	var cfg ProjectConfig
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields in place.
func (c *ProjectConfig) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o-mini"
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Sources.GitHub.State == "" {
		c.Sources.GitHub.State = "open"
	}
	if c.Sources.Jira.Limit <= 0 {
		c.Sources.Jira.Limit = 20
	}
	if c.Sources.Notes.Backend == "" {
		c.Sources.Notes.Backend = NotesBackendGateway
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Durations returns the parsed classify, fetch and synthesize timeouts.
// Empty or unparsable values fall back to the defaults.
func (t TimeoutsConfig) Durations() (classify, fetch, synthesize time.Duration) {
	return parseDuration(t.Classify, DefaultClassifyTimeout),
		parseDuration(t.Fetch, DefaultFetchTimeout),
		parseDuration(t.Synthesize, DefaultSynthesizeTimeout)
}

// Invalid lists the timeouts that are set but unusable, as "name=value"
// pairs, so callers can report the fallback to the defaults.
func (t TimeoutsConfig) Invalid() []string {
	var bad []string
	for _, f := range []struct{ name, value string }{
		{"classify", t.Classify},
		{"fetch", t.Fetch},
		{"synthesize", t.Synthesize},
	} {
		if f.value == "" {
			continue
		}
		if d, err := time.ParseDuration(f.value); err != nil || d <= 0 {
			bad = append(bad, f.name+"="+f.value)
		}
	}
	return bad
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
