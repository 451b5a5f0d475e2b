// Package gemini sizes documentation context with the Gemini tokenizer. The
// tokenizer runs locally, so counting never calls the Gemini API.
package gemini

import (
	"context"
	"fmt"

	"github.com/fwojciec/docscout"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultModel is the model whose vocabulary is used when none is given.
const DefaultModel = "gemini-2.0-flash"

var _ docscout.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens using the Gemini tokenizer.
type TokenCounter struct {
	model string
	tok   *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model. An empty
// model selects DefaultModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, docscout.Errorf(docscout.EINVALID, "unsupported tokenizer model %q: %v", model, err)
	}
	return &TokenCounter{model: model, tok: tok}, nil
}

// Model returns the model the counter was created for.
func (tc *TokenCounter) Model() string {
	return tc.model
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, "user"),
	}

	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, fmt.Errorf("counting tokens: %w", err)
	}

	return int(result.TotalTokens), nil
}
