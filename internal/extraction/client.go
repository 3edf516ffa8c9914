package extraction

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"medivault/internal/llm"
)

// ErrPrefix marks a field value that holds a failure message instead of
// extracted text. Callers tell a failed field from an empty one by this
// prefix, never by an error return.
const ErrPrefix = "ERROR: "

const fullTextPrompt = `Extract all text from this prescription image.
Get everything you can see - names, dates, numbers, addresses, everything.
Just return the text, no extra formatting.`

// Client reads prescription images and answers targeted questions against
// the recognized text. Both operations call the same text-generation
// provider, and neither ever returns an error: every fault is folded into
// an ERROR-prefixed string so a record can always be assembled from
// whatever did succeed.
type Client struct {
	llm llm.Client
}

func NewClient(c llm.Client) *Client {
	return &Client{llm: c}
}

// ExtractFullText loads the image at imagePath and asks the provider for a
// verbatim transcription.
func (c *Client) ExtractFullText(ctx context.Context, imagePath string) string {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPrefix + "Can't find the image file"
		}
		return fmt.Sprintf("%sSomething went wrong - %v", ErrPrefix, err)
	}

	vc, ok := c.llm.(llm.VisionClient)
	if !ok {
		return ErrPrefix + "configured provider does not support image input"
	}

	resp, err := vc.GenerateVision(ctx, fullTextPrompt, llm.Image{
		MIMEType: imageMIMEType(imagePath),
		Data:     data,
	})
	if err != nil {
		return fmt.Sprintf("%sSomething went wrong - %v", ErrPrefix, err)
	}
	return strings.TrimSpace(resp.Content)
}

// FindSpecificInfo asks the provider to pull one piece of information out of
// already-extracted text. The full text is embedded in the prompt, so no
// re-transcription happens here.
func (c *Client) FindSpecificInfo(ctx context.Context, fullText, whatToFind string) string {
	prompt := fmt.Sprintf(`Look through this prescription text and find the %s.

Text from prescription:
%s

Just give me the %s, nothing else.`, whatToFind, fullText, whatToFind)

	resp, err := c.llm.Generate(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return ErrPrefix + err.Error()
	}
	return strings.TrimSpace(resp.Content)
}

// IsError reports whether a field value carries a failure marker rather
// than extracted text.
func IsError(value string) bool {
	return strings.HasPrefix(value, ErrPrefix)
}

func imageMIMEType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "image/jpeg"
}
