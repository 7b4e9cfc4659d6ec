package settings

const settingsTemplate = `# Which AI backend answers lookups: local, groq, openrouter, mistral, cerebras.
ai_provider: local

# Where the local inference server listens. LM Studio's default is shown.
local_endpoint: http://127.0.0.1:1234/v1
# Model name sent to the local server. Usually irrelevant: the server
# answers with whatever model it has loaded.
local_model: ""

# Cloud backends. Every api_key can also come from the environment, e.g.
# GLOSS_GROQ_API_KEY.
groq:
  api_key: ""
  model: llama-3.3-70b-versatile
openrouter:
  api_key: ""
  model: meta-llama/llama-3.3-70b-instruct:free
mistral:
  api_key: ""
  model: mistral-small-latest
cerebras:
  api_key: ""
  model: llama-3.3-70b

# Where cached responses live. Empty means the XDG data dir.
cache_path: ""
# Disable the response cache entirely.
no_cache: false
`
