package backend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glossapp/gloss/internal/settings"
)

// memSource is an in-memory settings collaborator the factory reads fresh
// on every call.
type memSource struct {
	s settings.Settings
}

func (m *memSource) Load() (settings.Settings, error) {
	return m.s, nil
}

func TestFactoryResolvesSingleton(t *testing.T) {
	src := &memSource{s: settings.Settings{
		Provider: IDGroq,
		Groq:     settings.Backend{APIKey: "key", Model: "llama-3.3-70b-versatile"},
	}}
	f := NewFactory(src)

	a, err := f.Resolve()
	require.NoError(t, err)
	b, err := f.Resolve()
	require.NoError(t, err)
	require.Same(t, a, b)
}

func TestFactoryMutatesCloudInstanceInPlace(t *testing.T) {
	src := &memSource{s: settings.Settings{
		Provider: IDGroq,
		Groq:     settings.Backend{APIKey: "old", Model: "llama-3.3-70b-versatile"},
	}}
	f := NewFactory(src)

	a, err := f.Resolve()
	require.NoError(t, err)

	src.s.Groq = settings.Backend{APIKey: "new", Model: "llama-3.1-8b-instant"}
	b, err := f.Resolve()
	require.NoError(t, err)

	// Same instance, new credentials: the type-wide cooldown table must
	// survive a settings change.
	require.Same(t, a, b)
	cfg := b.(*Client).Config()
	require.Equal(t, "new", cfg.APIKey)
	require.Equal(t, "llama-3.1-8b-instant", cfg.Model)
}

func TestFactoryReplacesLocalInstanceOnEndpointChange(t *testing.T) {
	src := &memSource{s: settings.Settings{
		Provider:      IDLocal,
		LocalEndpoint: "http://127.0.0.1:1234/v1",
	}}
	f := NewFactory(src)

	a, err := f.Resolve()
	require.NoError(t, err)

	src.s.LocalEndpoint = "http://127.0.0.1:8080/v1"
	b, err := f.Resolve()
	require.NoError(t, err)

	require.NotSame(t, a, b)
	require.Equal(t, "http://127.0.0.1:8080/v1", b.(*Client).Endpoint())
}

func TestFactoryKeepsLocalInstanceOnModelChange(t *testing.T) {
	src := &memSource{s: settings.Settings{Provider: IDLocal}}
	f := NewFactory(src)

	a, err := f.Resolve()
	require.NoError(t, err)

	src.s.LocalModel = "qwen2.5-7b-instruct"
	b, err := f.Resolve()
	require.NoError(t, err)

	require.Same(t, a, b)
	require.Equal(t, "qwen2.5-7b-instruct", b.(*Client).Config().Model)
}

func TestFactorySwitchesProviders(t *testing.T) {
	src := &memSource{s: settings.Settings{
		Provider: IDGroq,
		Groq:     settings.Backend{APIKey: "gk"},
		Mistral:  settings.Backend{APIKey: "mk"},
	}}
	f := NewFactory(src)

	a, err := f.Resolve()
	require.NoError(t, err)
	require.Equal(t, IDGroq, a.(*Client).Descriptor().ID)

	src.s.Provider = IDMistral
	b, err := f.Resolve()
	require.NoError(t, err)
	require.Equal(t, IDMistral, b.(*Client).Descriptor().ID)

	// Switching back reuses the first instance.
	src.s.Provider = IDGroq
	c, err := f.Resolve()
	require.NoError(t, err)
	require.Same(t, a, c)
}

func TestFactoryUnknownBackend(t *testing.T) {
	f := NewFactory(&memSource{s: settings.Settings{Provider: "frobnicator"}})
	_, err := f.Resolve()
	require.Error(t, err)
}

func TestFactoryDirectGetter(t *testing.T) {
	src := &memSource{s: settings.Settings{
		Provider: IDLocal,
		Cerebras: settings.Backend{APIKey: "ck"},
	}}
	f := NewFactory(src)

	b, err := f.Get(IDCerebras)
	require.NoError(t, err)
	require.Equal(t, IDCerebras, b.(*Client).Descriptor().ID)
	require.Equal(t, "ck", b.(*Client).Config().APIKey)
}

func TestFactoryNextModel(t *testing.T) {
	src := &memSource{s: settings.Settings{
		Groq: settings.Backend{APIKey: "key", Model: "llama-3.1-8b-instant"},
	}}
	f := NewFactory(src)

	t.Run("prefers configured model", func(t *testing.T) {
		next, err := f.NextModel(IDGroq)
		require.NoError(t, err)
		require.Equal(t, "llama-3.1-8b-instant", next)
	})

	t.Run("mirrors cooldown state without mutating it", func(t *testing.T) {
		f.limiter(IDGroq).MarkLimited("llama-3.1-8b-instant")
		next, err := f.NextModel(IDGroq)
		require.NoError(t, err)
		require.Equal(t, "gemma2-9b-it", next)
	})

	t.Run("local reports its single model", func(t *testing.T) {
		next, err := f.NextModel(IDLocal)
		require.NoError(t, err)
		require.Equal(t, "local-model", next)
	})
}
