// Package extractor turns free-text Indonesian transaction descriptions into
// the structured contract in internal/schema, using Gemini as the text-to-
// structure oracle.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/nafisr/catatuang/internal/schema"
)

// Extractor is the narrow seam around the model call so callers can swap in a
// deterministic stub in tests.
type Extractor interface {
	Extract(ctx context.Context, userText string) (*schema.ExtractedTransaction, error)
}

// ExtractionError is returned for any failure inside the extractor: the model
// call itself, an empty response, or output that does not parse as the
// expected JSON shape. The handler layer decides how to surface it.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsExtractionError reports whether err originated inside the extractor.
func IsExtractionError(err error) bool {
	var extErr *ExtractionError
	return errors.As(err, &extErr)
}

// Gemini is the Extractor implementation backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	now    func() time.Time
}

// NewGemini creates a Gemini-backed extractor. The API key comes from
// configuration; model is e.g. "gemini-2.5-flash".
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGemini: create genai client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  model,
		now:    time.Now,
	}, nil
}

// Extract sends one prompt to the model and decodes its answer. No retries:
// a transient model failure fails the whole request.
func (g *Gemini) Extract(ctx context.Context, userText string) (*schema.ExtractedTransaction, error) {
	prompt := buildPrompt(userText, g.now())

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, &ExtractionError{Stage: "generate", Err: err}
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, &ExtractionError{Stage: "generate", Err: errors.New("empty response from model")}
	}

	return decodeExtraction(rawText)
}
