package backend

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/x/exp/ordered"

	"github.com/glossapp/gloss/internal/rate"
	"github.com/glossapp/gloss/internal/settings"
)

// SettingsSource is the external settings collaborator. It is consulted
// fresh on every resolution; the factory never caches what it returns
// beyond the config already held by a live instance.
type SettingsSource interface {
	Load() (settings.Settings, error)
}

// Factory hands out one long-lived backend instance per backend type,
// reconciling each against freshly read settings. Credential or model
// changes are applied to the existing instance in place; only a local
// endpoint change replaces an instance, because a local backend holds no
// cooldown memory worth keeping.
type Factory struct {
	source SettingsSource

	mu        sync.Mutex
	instances map[string]*Client
	limiters  map[string]*rate.Limiter
}

// NewFactory wires the factory to its settings source.
func NewFactory(source SettingsSource) *Factory {
	return &Factory{
		source:    source,
		instances: map[string]*Client{},
		limiters:  map[string]*rate.Limiter{},
	}
}

// Resolve returns the backend the user currently has selected.
func (f *Factory) Resolve() (Backend, error) {
	s, err := f.source.Load()
	if err != nil {
		return nil, err
	}
	return f.instance(s.Provider, s)
}

// Get returns a specific backend regardless of selection, still configured
// from fresh settings. Used by the connection-test UI.
func (f *Factory) Get(id string) (Backend, error) {
	s, err := f.source.Load()
	if err != nil {
		return nil, err
	}
	return f.instance(id, s)
}

// NextModel reports which model a backend would try first for its next
// request. Pure query: it mirrors the candidate ordering without touching
// any cooldown state. An empty string means every model is cooling down.
func (f *Factory) NextModel(id string) (string, error) {
	s, err := f.source.Load()
	if err != nil {
		return "", err
	}
	desc, ok := DescriptorFor(id)
	if !ok {
		return "", fmt.Errorf("unknown backend %q", id)
	}
	if desc.Local {
		return ordered.First(s.LocalModel, "local-model"), nil
	}
	preferred := ordered.First(s.Backend(id).Model, desc.DefaultModel())
	candidates := f.limiter(id).Peek(preferred, desc.Chain)
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0], nil
}

func (f *Factory) instance(id string, s settings.Settings) (*Client, error) {
	desc, ok := DescriptorFor(id)
	if !ok {
		return nil, fmt.Errorf("unknown backend %q", id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if desc.Local {
		endpoint := ordered.First(s.LocalEndpoint, DefaultLocalEndpoint)
		inst := f.instances[id]
		// The endpoint is the local backend's identity: a change means a
		// different server, so the old instance is discarded.
		if inst != nil && inst.Endpoint() != endpoint {
			inst = nil
		}
		if inst == nil {
			inst = New(desc, Config{Endpoint: endpoint, Model: s.LocalModel}, nil)
			f.instances[id] = inst
		} else if inst.Config().Model != s.LocalModel {
			inst.SetCredentials("", s.LocalModel)
		}
		return inst, nil
	}

	pair := s.Backend(id)
	model := ordered.First(pair.Model, desc.DefaultModel())
	inst := f.instances[id]
	if inst == nil {
		inst = New(desc, Config{APIKey: pair.APIKey, Model: model}, f.limiterLocked(id))
		f.instances[id] = inst
		return inst, nil
	}
	if cfg := inst.Config(); cfg.APIKey != pair.APIKey || cfg.Model != model {
		// Cloud instances are never discarded: their type-wide cooldown
		// table is exactly what the next caller depends on.
		inst.SetCredentials(pair.APIKey, model)
	}
	return inst, nil
}

func (f *Factory) limiter(id string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.limiterLocked(id)
}

func (f *Factory) limiterLocked(id string) *rate.Limiter {
	if l, ok := f.limiters[id]; ok {
		return l
	}
	l := rate.NewLimiter(rate.DefaultWindow)
	f.limiters[id] = l
	return l
}
