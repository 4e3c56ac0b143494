package catalog

// ProbeShape tags how a provider's model-listing endpoint is called and
// how its response is parsed. Adding a provider is a data change here,
// not a code change in the tester.
type ProbeShape string

const (
	// ShapeOpenAI: GET {base}/v1/models with an Authorization bearer
	// header; models under data[].id.
	ShapeOpenAI ProbeShape = "openai-like"

	// ShapeGemini: GET {base}/v1beta/models?key=..., no bearer header;
	// models under models[].name with the "models/" prefix stripped,
	// displayName as fallback.
	ShapeGemini ProbeShape = "gemini-like"
)

// DefaultModel is a static fallback model used when a provider has no
// recorded model list.
type DefaultModel struct {
	ID          string
	Name        string
	Description string
}

// Entry describes one supported LLM provider.
type Entry struct {
	ID             string
	DisplayName    string
	Description    string
	OfficialURL    string
	DocsURL        string
	DefaultBaseURL string
	EnvVar         string // environment variable the ephemeral store seeds from
	SeedModels     string // comma-joined model list used when env-seeding
	Shape          ProbeShape
	DefaultModels  []DefaultModel
}

// entries is ordered; the ephemeral store seeds providers in this order.
var entries = []Entry{
	{
		ID:             "deepseek",
		DisplayName:    "DeepSeek",
		Description:    "Reasoning-focused models from DeepSeek",
		OfficialURL:    "https://www.deepseek.com",
		DocsURL:        "https://platform.deepseek.com/api-docs",
		DefaultBaseURL: "https://api.deepseek.com",
		EnvVar:         "DEEPSEEK_API_KEY",
		SeedModels:     "deepseek-chat, deepseek-reasoner",
		Shape:          ShapeOpenAI,
		DefaultModels: []DefaultModel{
			{ID: "deepseek-chat", Name: "DeepSeek Chat", Description: "General chat model"},
			{ID: "deepseek-coder", Name: "DeepSeek Coder", Description: "Code generation model"},
		},
	},
	{
		ID:             "kimi",
		DisplayName:    "Moonshot (Kimi)",
		Description:    "Long-context assistant from Moonshot AI",
		OfficialURL:    "https://kimi.moonshot.cn",
		DocsURL:        "https://platform.moonshot.cn/docs",
		DefaultBaseURL: "https://api.moonshot.cn",
		EnvVar:         "KIMI_API_KEY",
		SeedModels:     "moonshot-v1-8k, moonshot-v1-32k, moonshot-v1-128k",
		Shape:          ShapeOpenAI,
		DefaultModels: []DefaultModel{
			{ID: "moonshot-v1-8k", Name: "Moonshot 8K", Description: "8K context window"},
			{ID: "moonshot-v1-32k", Name: "Moonshot 32K", Description: "32K context window"},
		},
	},
	{
		ID:             "openai",
		DisplayName:    "OpenAI",
		Description:    "GPT family models from OpenAI",
		OfficialURL:    "https://openai.com",
		DocsURL:        "https://platform.openai.com/docs",
		DefaultBaseURL: "https://api.openai.com",
		EnvVar:         "OPENAI_API_KEY",
		SeedModels:     "gpt-4, gpt-4-turbo, gpt-3.5-turbo",
		Shape:          ShapeOpenAI,
		DefaultModels: []DefaultModel{
			{ID: "gpt-4", Name: "GPT-4", Description: "Flagship model"},
			{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Fast chat model"},
		},
	},
	{
		ID:             "qwen",
		DisplayName:    "Qwen",
		Description:    "Tongyi Qianwen models from Alibaba",
		OfficialURL:    "https://tongyi.aliyun.com",
		DocsURL:        "https://help.aliyun.com/zh/dashscope",
		DefaultBaseURL: "https://dashscope.aliyuncs.com/compatible-mode",
		EnvVar:         "QWEN_API_KEY",
		SeedModels:     "qwen-turbo, qwen-plus, qwen-max",
		Shape:          ShapeOpenAI,
		DefaultModels: []DefaultModel{
			{ID: "qwen-turbo", Name: "Qwen Turbo", Description: "Fast model"},
			{ID: "qwen-plus", Name: "Qwen Plus", Description: "Enhanced model"},
		},
	},
	{
		ID:             "gemini",
		DisplayName:    "Google Gemini",
		Description:    "Multimodal models from Google",
		OfficialURL:    "https://ai.google.dev",
		DocsURL:        "https://ai.google.dev/docs",
		DefaultBaseURL: "https://generativelanguage.googleapis.com",
		EnvVar:         "GEMINI_API_KEY",
		SeedModels:     "gemini-pro, gemini-pro-vision",
		Shape:          ShapeGemini,
		DefaultModels: []DefaultModel{
			{ID: "gemini-pro", Name: "Gemini Pro", Description: "Multimodal model"},
			{ID: "gemini-pro-vision", Name: "Gemini Pro Vision", Description: "Image understanding"},
		},
	},
	{
		ID:             "openrouter",
		DisplayName:    "OpenRouter",
		Description:    "Aggregated access to many model vendors",
		OfficialURL:    "https://openrouter.ai",
		DocsURL:        "https://openrouter.ai/docs",
		DefaultBaseURL: "https://openrouter.ai/api",
		EnvVar:         "OPENROUTER_API_KEY",
		SeedModels:     "anthropic/claude-3-opus, anthropic/claude-3-sonnet",
		Shape:          ShapeOpenAI,
		DefaultModels: []DefaultModel{
			{ID: "anthropic/claude-3-opus", Name: "Claude 3 Opus", Description: "Via OpenRouter"},
			{ID: "anthropic/claude-3-sonnet", Name: "Claude 3 Sonnet", Description: "Via OpenRouter"},
		},
	},
	{
		ID:             "claude",
		DisplayName:    "Anthropic Claude",
		Description:    "Claude assistants from Anthropic",
		OfficialURL:    "https://anthropic.com",
		DocsURL:        "https://docs.anthropic.com",
		DefaultBaseURL: "https://api.anthropic.com",
		EnvVar:         "CLAUDE_API_KEY",
		SeedModels:     "claude-3-opus, claude-3-sonnet",
		Shape:          ShapeOpenAI,
		DefaultModels: []DefaultModel{
			{ID: "claude-3-opus", Name: "Claude 3 Opus", Description: "Most capable"},
			{ID: "claude-3-sonnet", Name: "Claude 3 Sonnet", Description: "Balanced"},
		},
	},
	{
		ID:             "zhipu",
		DisplayName:    "ZhipuAI",
		Description:    "GLM conversation models from Zhipu",
		OfficialURL:    "https://zhipuai.cn",
		DocsURL:        "https://maas.aminer.cn/dev/api",
		DefaultBaseURL: "https://open.bigmodel.cn/api/paas",
		EnvVar:         "ZHIPU_API_KEY",
		SeedModels:     "glm-4, glm-3-turbo",
		Shape:          ShapeOpenAI,
		DefaultModels: []DefaultModel{
			{ID: "glm-4", Name: "GLM-4", Description: "Flagship model"},
			{ID: "glm-3-turbo", Name: "GLM-3 Turbo", Description: "Fast model"},
		},
	},
}

var byID = func() map[string]*Entry {
	m := make(map[string]*Entry, len(entries))
	for i := range entries {
		m[entries[i].ID] = &entries[i]
	}
	return m
}()

// Lookup returns the catalog entry for a provider id.
func Lookup(id string) (*Entry, bool) {
	e, ok := byID[id]
	return e, ok
}

// Known reports whether the provider id is in the supported set.
func Known(id string) bool {
	_, ok := byID[id]
	return ok
}

// All returns the catalog entries in seeding order.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// DisplayName returns the display name for a provider id, falling back to
// the id itself for unknown providers loaded from old rows.
func DisplayName(id string) string {
	if e, ok := byID[id]; ok {
		return e.DisplayName
	}
	return id
}

// DefaultBaseURL returns the default base URL for a provider id.
func DefaultBaseURL(id string) string {
	if e, ok := byID[id]; ok {
		return e.DefaultBaseURL
	}
	return "https://api.openai.com"
}
