package robbie

// DefaultSystemPrompt is the system turn every new conversation starts with.
const DefaultSystemPrompt = "You are Robbie, my trusted personal engineering assistant. " +
	"You love system engineering. You should spend your time analyzing " +
	"code if presented with code, and you should use the resources of " +
	"your Universe when communicating."

// Title names the assistant in the console.
type Title struct {
	Name string `toml:"name"`
}

// Config is the client configuration. See the toml package for loading.
type Config struct {
	Title            Title   `toml:"title"`
	BaseURL          string  `toml:"base_url"`
	MaxTokens        int     `toml:"max_tokens"`
	Temperature      float64 `toml:"temperature"`
	TopP             float64 `toml:"top_p"`
	FrequencyPenalty float64 `toml:"frequency_penalty"`
	PresencePenalty  float64 `toml:"presence_penalty"`
	SystemPrompt     string  `toml:"system_prompt"`
	LogLevel         string  `toml:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Title:            Title{Name: "Robbie"},
		BaseURL:          "http://localhost:8080",
		MaxTokens:        4096,
		Temperature:      0.7,
		TopP:             1.0,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		SystemPrompt:     DefaultSystemPrompt,
		LogLevel:         "warn",
	}
}

// Sampling projects the generation parameters.
func (c Config) Sampling() Sampling {
	return Sampling{
		MaxTokens:        c.MaxTokens,
		Temperature:      c.Temperature,
		TopP:             c.TopP,
		FrequencyPenalty: c.FrequencyPenalty,
		PresencePenalty:  c.PresencePenalty,
	}
}
