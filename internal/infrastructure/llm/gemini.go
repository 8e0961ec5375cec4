package llm

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	openai "github.com/sashabaranov/go-openai"

	"VideoScanner/internal/config"
	"VideoScanner/internal/domain"
	"VideoScanner/internal/ports"
)

// summaryPrompt renders the single user message sent to the model. The
// formatting rules mirror what Telegram's Markdown parse mode accepts, so the
// summary can be forwarded without post-processing.
var summaryPrompt = template.Must(template.New("summary").Parse(
	`Summarize the following YouTube video transcript into a concise digest that can be read in under one minute.

Video title: {{.Title}}
{{- if .Description}}
Video description: {{.Description}}
{{- end}}
Video URL: {{.URL}}

Structure the summary with these sections:
*Detailed Content Breakdown* - the main points and arguments of the video.
*Technical Details (if applicable)* - tools, versions, commands or configuration mentioned.

Formatting rules (Telegram Markdown):
- *bold* for section headers and key terms
- _italic_ for emphasis
- ` + "`code`" + ` for commands, identifiers and file names
- "- " for bullet points
Do not use any other markup.

Transcript:
{{.Transcript}}`))

type promptData struct {
	Title       string
	Description string
	URL         string
	Transcript  string
}

// Gemini implements ports.Summarizer against the generative-language API
// through its OpenAI-compatible endpoint.
type Gemini struct {
	client *openai.Client
	model  string
}

var _ ports.Summarizer = (*Gemini)(nil)

// NewGemini builds a summarizer from configuration.
func NewGemini(cfg config.GeminiConfig) *Gemini {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.Endpoint
	return &Gemini{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// Summarize produces the Telegram-ready digest for a video.
func (g *Gemini) Summarize(ctx context.Context, video domain.Video, transcript string) (string, error) {
	prompt, err := buildPrompt(video, transcript)
	if err != nil {
		return "", fmt.Errorf("build summary prompt: %w", err)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarization request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarization returned no choices for video %s", video.ID)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("summarization returned an empty summary for video %s", video.ID)
	}
	return summary, nil
}

func buildPrompt(video domain.Video, transcript string) (string, error) {
	var b strings.Builder
	err := summaryPrompt.Execute(&b, promptData{
		Title:       video.Title,
		Description: video.Description,
		URL:         video.WatchURL(),
		Transcript:  transcript,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
