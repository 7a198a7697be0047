// Package classify assigns a JobFunction category to free-text job titles.
//
// The real backend is an LLM behind langchaingo; the internal contract is
// just the closed category set plus the unclassified sentinel. A failed or
// nonsense classification is FunctionUnclassified, never an error — jobs
// ingest fine without a category.
package classify

import (
	"context"
	"fmt"
	"log"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"roofboard/jobs-service/internal/model"
)

// Classifier maps a job title to a category, or FunctionUnclassified when
// no category can be assigned.
type Classifier interface {
	Classify(ctx context.Context, title string) model.JobFunction
}

const classifyPrompt = `You are a job title classifier for the roofing industry. Classify the job title into one of these categories: SALES, LABOR, PRODUCTION, MANAGEMENT. Return only the category name in all caps.

Classify this job title: %s`

// LLM classifies titles through a langchaingo text-generation model.
type LLM struct {
	client llms.Model
}

// NewLLM wraps an already constructed model. Used directly in tests.
func NewLLM(client llms.Model) *LLM {
	return &LLM{client: client}
}

// NewOpenAI builds an LLM classifier on the OpenAI chat backend.
func NewOpenAI(apiKey string) (*LLM, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel("gpt-3.5-turbo"),
	)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return &LLM{client: client}, nil
}

// Classify asks the model for a single category token, case-folds it and
// validates it against the closed set. Service errors, empty responses and
// unrecognized tokens all come back as FunctionUnclassified.
func (l *LLM) Classify(ctx context.Context, title string) model.JobFunction {
	resp, err := llms.GenerateFromSinglePrompt(ctx, l.client,
		fmt.Sprintf(classifyPrompt, title),
		llms.WithTemperature(0),
		llms.WithMaxTokens(10),
	)
	if err != nil {
		log.Printf("[classify] Classification of %q failed: %v", title, err)
		return model.FunctionUnclassified
	}

	fn, err := model.ParseJobFunction(resp)
	if err != nil {
		log.Printf("[classify] Unrecognized category %q for title %q", resp, title)
		return model.FunctionUnclassified
	}
	return fn
}

// Noop is used when no classifier API key is configured; every title stays
// unclassified.
type Noop struct{}

// Classify always returns FunctionUnclassified.
func (Noop) Classify(context.Context, string) model.JobFunction {
	return model.FunctionUnclassified
}
