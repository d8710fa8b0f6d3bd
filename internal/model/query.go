package model

// Platform identifies a generative AI platform the audit queries.
type Platform string

const (
	PlatformChatGPT    Platform = "ChatGPT"
	PlatformClaude     Platform = "Claude"
	PlatformGemini     Platform = "Gemini"
	PlatformPerplexity Platform = "Perplexity"
)

// Platforms returns every queryable platform in the fixed order responses are
// produced for each prompt.
func Platforms() []Platform {
	return []Platform{PlatformChatGPT, PlatformClaude, PlatformGemini, PlatformPerplexity}
}

// QueryResponse is one platform's answer to one prompt. Read-only input to the
// report compiler; Response may be real text or a placeholder marker.
type QueryResponse struct {
	Platform Platform `json:"platform"`
	Prompt   string   `json:"prompt"`
	Response string   `json:"response"`
}
