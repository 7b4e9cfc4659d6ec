// Package settings is the dispatch layer's view of the reader's
// configuration: which backend is selected and, per backend, the credential
// and model to use. The store re-reads the file on every load so a settings
// change in one part of the application is visible to the next dispatch
// without restarts.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

// Backend is the credential/model pair for one cloud backend.
type Backend struct {
	APIKey string `yaml:"api_key" env:"API_KEY"`
	Model  string `yaml:"model" env:"MODEL"`
}

// Settings is what the YAML file maps to. Environment variables with the
// GLOSS_ prefix override the file.
type Settings struct {
	Provider      string  `yaml:"ai_provider" env:"PROVIDER"`
	LocalEndpoint string  `yaml:"local_endpoint" env:"LOCAL_ENDPOINT"`
	LocalModel    string  `yaml:"local_model" env:"LOCAL_MODEL"`
	Groq          Backend `yaml:"groq" envPrefix:"GROQ_"`
	OpenRouter    Backend `yaml:"openrouter" envPrefix:"OPENROUTER_"`
	Mistral       Backend `yaml:"mistral" envPrefix:"MISTRAL_"`
	Cerebras      Backend `yaml:"cerebras" envPrefix:"CEREBRAS_"`
	CachePath     string  `yaml:"cache_path" env:"CACHE_PATH"`
	NoCache       bool    `yaml:"no_cache" env:"NO_CACHE"`
}

// Backend returns the pair for a backend id, or a zero pair for the local
// backend and unknown ids.
func (s Settings) Backend(id string) Backend {
	switch id {
	case "groq":
		return s.Groq
	case "openrouter":
		return s.OpenRouter
	case "mistral":
		return s.Mistral
	case "cerebras":
		return s.Cerebras
	default:
		return Backend{}
	}
}

// Store reads settings from one YAML file.
type Store struct {
	path string
}

// NewStore places the settings file in the XDG config dir, rendering the
// default file on first run.
func NewStore() (*Store, error) {
	path, err := xdg.ConfigFile(filepath.Join("gloss", "gloss.yml"))
	if err != nil {
		return nil, fmt.Errorf("could not find settings path: %w", err)
	}
	return NewStoreAt(path)
}

// NewStoreAt uses an explicit settings path. The default file is written if
// none exists.
func NewStoreAt(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("could not create settings directory: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeDefault(path); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("could not stat settings file: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the settings file location.
func (st *Store) Path() string { return st.path }

// Load reads the file and applies environment overrides. Called on every
// backend resolution: the file is ground truth, never cached here.
func (st *Store) Load() (Settings, error) {
	var s Settings
	content, err := os.ReadFile(st.path)
	if err != nil {
		return s, fmt.Errorf("could not read settings file: %w", err)
	}
	if err := yaml.Unmarshal(content, &s); err != nil {
		return s, fmt.Errorf("could not parse settings file: %w", err)
	}
	if err := env.ParseWithOptions(&s, env.Options{Prefix: "GLOSS_"}); err != nil {
		return s, fmt.Errorf("could not parse environment into settings: %w", err)
	}
	if s.Provider == "" {
		s.Provider = "local"
	}
	if s.CachePath == "" {
		s.CachePath = filepath.Join(xdg.DataHome, "gloss")
	}
	return s, nil
}

// Save writes settings back to the file. Used by `gloss settings --set`
// style tooling and tests; the reader itself writes through its own
// settings UI.
func (st *Store) Save(s Settings) error {
	content, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("could not encode settings: %w", err)
	}
	if err := os.WriteFile(st.path, content, 0o600); err != nil {
		return fmt.Errorf("could not write settings file: %w", err)
	}
	return nil
}

func writeDefault(path string) error {
	tmpl := template.Must(template.New("settings").Parse(settingsTemplate))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create settings file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := tmpl.Execute(f, nil); err != nil {
		return fmt.Errorf("could not render settings template: %w", err)
	}
	return nil
}
