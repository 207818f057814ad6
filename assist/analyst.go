// Package assist comments the desk reports with a Gemini model.
package assist

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("assistant disabled: no api key configured")

//go:embed digest.md
var digestPrompt string

var digestTemplate = template.Must(template.New("digest").Parse(digestPrompt))

// chat is the part of a genai chat used by the Analyst.
type chat interface {
	Send(ctx context.Context, parts ...*genai.Part) (*genai.GenerateContentResponse, error)
}

// Analyst is a chat with a model that can read the desk reports through tools.
type Analyst struct {
	ModelName string
	Config    *genai.GenerateContentConfig
	Library   Library
	log       zerolog.Logger
	chat      chat
}

// NewAnalyst declares tools to the model and the analyst system instruction.
func NewAnalyst(model string, log zerolog.Logger, tools ...Tool) *Analyst {
	if model == "" {
		model = DefaultModel
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}
	if len(tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: NewDeclaration(tools)}}
	}
	return &Analyst{
		ModelName: model,
		Config:    cfg,
		Library:   NewLibrary(tools),
		log:       log.With().Str("component", "assist").Logger(),
	}
}

const systemInstruction = `You are the analyst of a long and short trading desk on B3.
Amounts are in reais. Net results already include a 0.5% transaction cost on each leg.
Answer in the language of the question, concisely, using only the figures you are given.`

// NewClient returns a Gemini client, or ErrDisabled without apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	return genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
}

// Start opens the chat.
func (a *Analyst) Start(ctx context.Context, client *genai.Client) error {
	c, err := client.Chats.Create(ctx, a.ModelName, a.Config, nil)
	if err != nil {
		return err
	}
	a.chat = c
	return nil
}

// maxCalls bounds the function calls answered for a single question.
const maxCalls = 8

// Ask sends parts and answers function calls until the model replies with text.
func (a *Analyst) Ask(ctx context.Context, parts ...*genai.Part) (string, error) {
	if a.chat == nil {
		return "", errors.New("analyst not started")
	}
	for range maxCalls {
		resp, err := a.chat.Send(ctx, parts...)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("no response from %s", a.ModelName)
		}
		content := resp.Candidates[0].Content

		var calls []*genai.Part
		var text strings.Builder
		for _, p := range content.Parts {
			switch {
			case p.FunctionCall != nil:
				if a.Library == nil {
					return "", fmt.Errorf("no function to answer %s", p.FunctionCall.Name)
				}
				a.log.Debug().Str("function", p.FunctionCall.Name).Msg("function call")
				calls = append(calls, &genai.Part{FunctionResponse: a.Library(ctx, p.FunctionCall)})
			case p.Text != "":
				text.WriteString(p.Text)
			}
		}
		if len(calls) == 0 {
			return text.String(), nil
		}
		parts = calls
	}
	return "", fmt.Errorf("too many function calls from %s", a.ModelName)
}

// Digest asks for a commentary of the consolidated report.
func (a *Analyst) Digest(ctx context.Context, report, question string) (string, error) {
	var buf bytes.Buffer
	err := digestTemplate.Execute(&buf, struct{ Report, Question string }{report, question})
	if err != nil {
		return "", fmt.Errorf("cannot build digest prompt: %w", err)
	}
	return a.Ask(ctx, &genai.Part{Text: buf.String()})
}
