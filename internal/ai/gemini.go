// Package ai wraps the Gemini API for natural-language financial summaries
// and tax tips. It is a thin prompt-in, text-out adapter: no retries, no
// response post-processing beyond extracting the text.
package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apperrors "centsimple/internal/errors"
	"centsimple/internal/services"
)

const defaultModel = "gemini-2.5-flash"

// Generator produces natural-language text from financial data.
type Generator interface {
	GenerateSummary(ctx context.Context, report *services.Report) (string, error)
	GenerateTaxTip(ctx context.Context, description, categoryName string) (string, error)
}

// GeminiClient is a Generator backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed Generator using the given API key.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: defaultModel}, nil
}

// GenerateSummary asks the model for a short, friendly summary of the
// user's report.
func (g *GeminiClient) GenerateSummary(ctx context.Context, report *services.Report) (string, error) {
	return g.generate(ctx, summaryPrompt(report))
}

// GenerateTaxTip asks the model for a general, educational tax tip about a
// single expense.
func (g *GeminiClient) GenerateTaxTip(ctx context.Context, description, categoryName string) (string, error) {
	return g.generate(ctx, taxTipPrompt(description, categoryName))
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAIUnavailable, err)
	}

	text := resp.Text()
	if text == "" {
		return "", apperrors.ErrAIUnavailable
	}
	return text, nil
}

func summaryPrompt(report *services.Report) string {
	var breakdown []string
	for _, row := range report.ExpenseBreakdown {
		breakdown = append(breakdown, fmt.Sprintf("%s: %s CAD", row.CategoryName, row.Total.StringFixed(2)))
	}

	return fmt.Sprintf(`You are a friendly and encouraging financial analyst for an app called Centsimple. Your tone is helpful and professional, but not robotic. Do not give prescriptive financial advice.

Based on the following financial data for the user, provide a short, easy-to-read summary (2-3 sentences max).

The summary should include:
1. A brief, one-sentence overview of their financial activity.
2. An encouraging observation or a small, general educational tip related to their spending.

Here is the user's financial data:
- Total Income: %s CAD
- Total Expense: %s CAD
- Net Balance: %s CAD
- Expense Breakdown: %s
`,
		report.TotalIncome.StringFixed(2),
		report.TotalExpense.StringFixed(2),
		report.NetEarnSpend.StringFixed(2),
		strings.Join(breakdown, ", "),
	)
}

func taxTipPrompt(description, categoryName string) string {
	return fmt.Sprintf(`You are a helpful financial assistant for an app called Centsimple. Provide one short, general, educational tax tip (1-2 sentences) related to the following expense. Do not give prescriptive tax advice and do not assume the user's jurisdiction beyond Canada.

Expense description: %s
Category: %s
`, description, categoryName)
}
