package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glossapp/gloss/internal/proto"
	"github.com/glossapp/gloss/internal/rate"
)

// fakeProvider is an OpenAI-compatible test server that records which
// models were asked for and answers according to a per-model script.
type fakeProvider struct {
	srv *httptest.Server

	mu      sync.Mutex
	models  []string
	roles   [][]string
	prompts []string

	// status per model; missing means 200.
	statuses map[string]int
	reply    string
	delay    time.Duration
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	f := &fakeProvider{statuses: map[string]int{}, reply: "DEFINITION: a small dog"}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/models") {
			fmt.Fprint(w, `{"object":"list","data":[{"id":"m0"},{"id":"m1"}]}`)
			return
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		var roles []string
		prompt := ""
		for _, m := range body.Messages {
			roles = append(roles, m.Role)
			if m.Role == "user" {
				prompt = m.Content
			}
		}
		f.mu.Lock()
		f.models = append(f.models, body.Model)
		f.roles = append(f.roles, roles)
		f.prompts = append(f.prompts, prompt)
		status := f.statuses[body.Model]
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":{"message":"nope","type":"test"}}`)
			return
		}
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, f.reply)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeProvider) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.models...)
}

func (f *fakeProvider) lastRoles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.roles) == 0 {
		return nil
	}
	return f.roles[len(f.roles)-1]
}

func (f *fakeProvider) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func (f *fakeProvider) descriptor(chain ...string) Descriptor {
	return Descriptor{
		ID:      "testcloud",
		Name:    "Test Cloud",
		BaseURL: f.srv.URL,
		Timeout: 5 * time.Second,
		Chain:   chain,
	}
}

func TestDispatchPrefersConfiguredModel(t *testing.T) {
	f := newFakeProvider(t)
	c := New(f.descriptor("m0", "m1", "m2"), Config{APIKey: "key", Model: "m1"}, rate.NewLimiter(0))

	def, err := c.Definition(context.Background(), "perrito", "", proto.Spanish)
	require.NoError(t, err)
	require.Equal(t, "a small dog", def.Text)
	require.Equal(t, []string{"m1"}, f.requested())
}

func TestDispatchSendsSystemAndUserMessages(t *testing.T) {
	f := newFakeProvider(t)
	c := New(f.descriptor("m0"), Config{APIKey: "key", Model: "m0"}, rate.NewLimiter(0))

	_, err := c.Definition(context.Background(), "perrito", "", proto.Spanish)
	require.NoError(t, err)
	require.Equal(t, []string{proto.RoleSystem, proto.RoleUser}, f.lastRoles())
	require.Contains(t, f.lastPrompt(), "perrito")
}

func TestBatchPronunciationFiltersPunctuation(t *testing.T) {
	f := newFakeProvider(t)
	f.reply = "1. /ˈka.sa/\n2. /ˈpe.ro/\n3. /ˈɡa.to/\n4. /sol/"
	c := New(f.descriptor("m0"), Config{APIKey: "key", Model: "m0"}, rate.NewLimiter(0))

	words := []string{"casa", "perro", "...", "gato", "sol"}
	results, err := c.BatchPronunciation(context.Background(), words, proto.Spanish)
	require.NoError(t, err)
	require.Len(t, f.requested(), 1, "the whole batch goes out as one request")
	require.Len(t, results, len(words))

	// The punctuation token never reaches the backend and comes back as a
	// zero result at its original position.
	prompt := f.lastPrompt()
	require.NotContains(t, prompt, "...")
	require.Contains(t, prompt, "4. sol")
	require.NotContains(t, prompt, "5.")
	require.True(t, results[2].Zero())

	require.Equal(t, "/ˈka.sa/", results[0].IPA)
	require.Equal(t, "/ˈpe.ro/", results[1].IPA)
	require.Equal(t, "/ˈɡa.to/", results[3].IPA)
	require.Equal(t, "/sol/", results[4].IPA)
}

func TestDispatchFallsBackOnRateLimit(t *testing.T) {
	f := newFakeProvider(t)
	f.statuses["m0"] = http.StatusTooManyRequests
	limiter := rate.NewLimiter(0)
	c := New(f.descriptor("m0", "m1"), Config{APIKey: "key", Model: "m0"}, limiter)

	def, err := c.Definition(context.Background(), "perrito", "", proto.Spanish)
	require.NoError(t, err)
	require.Equal(t, "a small dog", def.Text)
	require.Equal(t, []string{"m0", "m1"}, f.requested())
	require.True(t, limiter.Limited("m0"))
	require.False(t, limiter.Limited("m1"))
}

func TestDispatchSkipsCooledDownPreferred(t *testing.T) {
	f := newFakeProvider(t)
	limiter := rate.NewLimiter(0)
	limiter.MarkLimited("m0")
	c := New(f.descriptor("m0", "m1"), Config{APIKey: "key", Model: "m0"}, limiter)

	_, err := c.Definition(context.Background(), "perrito", "", proto.Spanish)
	require.NoError(t, err)
	require.Equal(t, []string{"m1"}, f.requested())
}

func TestDispatchAllModelsRateLimited(t *testing.T) {
	f := newFakeProvider(t)
	limiter := rate.NewLimiter(0)
	limiter.MarkLimited("m0")
	limiter.MarkLimited("m1")
	c := New(f.descriptor("m0", "m1"), Config{APIKey: "key", Model: "m0"}, limiter)

	_, err := c.Definition(context.Background(), "perrito", "", proto.Spanish)
	var all *AllModelsRateLimitedError
	require.ErrorAs(t, err, &all)
	require.GreaterOrEqual(t, all.WaitSeconds(), 1)
	require.Empty(t, f.requested(), "no request may be issued when every model is cooling down")
}

func TestDispatchRateLimitExhaustion(t *testing.T) {
	f := newFakeProvider(t)
	f.statuses["m0"] = http.StatusTooManyRequests
	f.statuses["m1"] = http.StatusTooManyRequests
	limiter := rate.NewLimiter(0)
	c := New(f.descriptor("m0", "m1"), Config{APIKey: "key", Model: "m0"}, limiter)

	_, err := c.Definition(context.Background(), "perrito", "", proto.Spanish)
	var all *AllModelsRateLimitedError
	require.ErrorAs(t, err, &all)
	require.Equal(t, []string{"m0", "m1"}, f.requested())
}

func TestDispatchAbortsOnAuthError(t *testing.T) {
	f := newFakeProvider(t)
	f.statuses["m0"] = http.StatusUnauthorized
	limiter := rate.NewLimiter(0)
	c := New(f.descriptor("m0", "m1"), Config{APIKey: "bad", Model: "m0"}, limiter)

	_, err := c.Definition(context.Background(), "perrito", "", proto.Spanish)
	var auth *AuthenticationError
	require.ErrorAs(t, err, &auth)
	require.Equal(t, []string{"m0"}, f.requested(), "auth failures must not fall through the chain")
	require.False(t, limiter.Limited("m0"))
}

func TestDispatchRequiresCredential(t *testing.T) {
	f := newFakeProvider(t)
	c := New(f.descriptor("m0"), Config{}, rate.NewLimiter(0))

	_, err := c.Definition(context.Background(), "perrito", "", proto.Spanish)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Empty(t, f.requested())
}

func TestDispatchTimeoutIsTerminal(t *testing.T) {
	f := newFakeProvider(t)
	f.delay = 300 * time.Millisecond
	desc := f.descriptor("m0", "m1")
	desc.Timeout = 50 * time.Millisecond
	limiter := rate.NewLimiter(0)
	c := New(desc, Config{APIKey: "key", Model: "m0"}, limiter)

	_, err := c.Definition(context.Background(), "perrito", "", proto.Spanish)
	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	// A slow model is not a rate-limited model: no substitution, no
	// cooldown.
	require.False(t, limiter.Limited("m0"))
}

func TestLocalBackendIgnoresChainAndCredential(t *testing.T) {
	f := newFakeProvider(t)
	desc := Descriptor{ID: IDLocal, Name: "Local server", BaseURL: f.srv.URL, Local: true, Timeout: 5 * time.Second}
	c := New(desc, Config{Endpoint: f.srv.URL}, nil)

	_, err := c.Definition(context.Background(), "perrito", "", proto.Spanish)
	require.NoError(t, err)
	require.Equal(t, []string{"local-model"}, f.requested())
}

func TestTestConnection(t *testing.T) {
	t.Run("lists models", func(t *testing.T) {
		f := newFakeProvider(t)
		c := New(f.descriptor("m0"), Config{APIKey: "key"}, rate.NewLimiter(0))
		status := c.TestConnection(context.Background())
		require.True(t, status.OK)
		require.Equal(t, []string{"m0", "m1"}, status.Models)
	})

	t.Run("missing credential", func(t *testing.T) {
		f := newFakeProvider(t)
		c := New(f.descriptor("m0"), Config{}, rate.NewLimiter(0))
		status := c.TestConnection(context.Background())
		require.False(t, status.OK)
		require.Contains(t, status.Message, "no API key")
	})
}
