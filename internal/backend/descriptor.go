package backend

import "time"

// Backend ids. These are the values the settings store uses for
// "ai_provider".
const (
	IDLocal      = "local"
	IDGroq       = "groq"
	IDOpenRouter = "openrouter"
	IDMistral    = "mistral"
	IDCerebras   = "cerebras"
)

// DefaultLocalEndpoint is where an LM Studio style server listens out of
// the box.
const DefaultLocalEndpoint = "http://127.0.0.1:1234/v1"

const (
	cloudTimeout = 60 * time.Second
	localTimeout = 30 * time.Second
)

// Descriptor is everything that distinguishes one backend from another:
// endpoint, auth shape, extra headers, and the model fallback chain. The
// quirks live here as data so a single dispatcher serves all five
// backends.
type Descriptor struct {
	ID      string
	Name    string
	BaseURL string
	Local   bool
	Timeout time.Duration

	// Extra request headers, e.g. OpenRouter's attribution pair.
	Headers map[string]string

	// Chain is the ordered list of substitute models tried when the
	// preferred one is unavailable. Empty for the local backend, which has
	// whatever single model the user loaded.
	Chain []string
}

var descriptors = []Descriptor{
	{
		ID:      IDLocal,
		Name:    "Local server",
		BaseURL: DefaultLocalEndpoint,
		Local:   true,
		Timeout: localTimeout,
	},
	{
		ID:      IDGroq,
		Name:    "Groq",
		BaseURL: "https://api.groq.com/openai/v1",
		Timeout: cloudTimeout,
		Chain: []string{
			"llama-3.3-70b-versatile",
			"llama-3.1-8b-instant",
			"gemma2-9b-it",
		},
	},
	{
		ID:      IDOpenRouter,
		Name:    "OpenRouter",
		BaseURL: "https://openrouter.ai/api/v1",
		Timeout: cloudTimeout,
		Headers: map[string]string{
			"HTTP-Referer": "https://github.com/glossapp/gloss",
			"X-Title":      "gloss",
		},
		Chain: []string{
			"meta-llama/llama-3.3-70b-instruct:free",
			"google/gemini-2.0-flash-exp:free",
			"mistralai/mistral-7b-instruct:free",
		},
	},
	{
		ID:      IDMistral,
		Name:    "Mistral",
		BaseURL: "https://api.mistral.ai/v1",
		Timeout: cloudTimeout,
		Chain: []string{
			"mistral-small-latest",
			"open-mistral-nemo",
			"mistral-tiny",
		},
	},
	{
		ID:      IDCerebras,
		Name:    "Cerebras",
		BaseURL: "https://api.cerebras.ai/v1",
		Timeout: cloudTimeout,
		Chain: []string{
			"llama-3.3-70b",
			"llama3.1-8b",
		},
	},
}

// Descriptors returns the fixed backend catalog in display order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// DescriptorFor looks a backend up by id.
func DescriptorFor(id string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// DefaultModel is the model used when the user has not picked one.
func (d Descriptor) DefaultModel() string {
	if len(d.Chain) > 0 {
		return d.Chain[0]
	}
	return ""
}
