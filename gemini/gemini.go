// Package gemini implements [robbie.Backend] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK. The serialized chat-template
// prompt is sent as a single user text content, so the model continues the
// template rather than Gemini applying its own chat format.
package gemini

const (
	modelPrefix    = "models/"
	generateAction = "generateContent"
)
