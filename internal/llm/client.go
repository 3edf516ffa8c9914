package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Image carries raw image bytes for vision requests.
type Image struct {
	MIMEType string
	Data     []byte
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

// VisionClient is implemented by providers that accept an image alongside
// the prompt. Text-only providers simply don't satisfy it.
type VisionClient interface {
	Client
	GenerateVision(ctx context.Context, prompt string, image Image) (Response, error)
}
