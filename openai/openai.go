// Package openai implements [robbie.Backend] for OpenAI-compatible
// inference servers such as vLLM and llama.cpp.
//
// Only the legacy text completion endpoint is used: the prompt is already
// serialized in the model's chat template, so the server must not apply
// one of its own.
package openai

const (
	modelsPath      = "/v1/models"
	completionsPath = "/v1/completions"
)

// apiCompletionRequest is the JSON body sent to /v1/completions. Sampling
// fields carry no omitempty so that zero values reach the server.
type apiCompletionRequest struct {
	Model            string  `json:"model"`
	Prompt           string  `json:"prompt"`
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	TopP             float64 `json:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty"`
}

type apiCompletionResponse struct {
	Choices []apiChoice `json:"choices"`
}

type apiChoice struct {
	Text string `json:"text"`
}

type apiModelList struct {
	Data []apiModel `json:"data"`
}

type apiModel struct {
	ID string `json:"id"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
