// Package summarizer turns a voice recording into diary bullet points.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

// Summarizer converts recorded audio into summary text.
type Summarizer interface {
	Summarize(ctx context.Context, audio []byte, mimeType string) (string, error)
}

var ErrEmptyAudio = errors.New("empty audio")

const Prompt = `Summarize this audio into a concise bulleted list (max 5 points).
Style: Telegraphic, first-person diary format.
Output only the bullet points, no preamble.
- Focus on: Who, What, Where, How.
- Grammar: Use sentence fragments. Omit "they/he/she". Use "I" if needed.
- Example: "Met Nicholas. He is moving to Seattle" -> "Nicholas moving to Seattle."

Required final bullet:
- A subjective 2-3 word description of the speaker's vibe (e.g. "Sounded excited", "Voice cracked").`

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Gemini summarizes with a Gemini model, sending audio inline.
type Gemini struct {
	model    string
	generate generateFunc
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{model: model, generate: client.Models.GenerateContent}, nil
}

func (g *Gemini) Summarize(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(Prompt),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.generate(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenAI summarize failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("GenAI returned no text")
	}
	return text, nil
}

// MIMEType guesses the audio MIME type from a file name, defaulting to audio/wav.
func MIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mp3"
	case ".m4a", ".aac":
		return "audio/aac"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	}
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "audio/") {
		return t
	}
	return "audio/wav"
}
