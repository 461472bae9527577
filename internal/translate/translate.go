// Package translate fills in missing languages of localized content using
// the OpenAI chat completions API.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/davrbek/folio/internal/i18n"
	"github.com/davrbek/folio/internal/model"
)

var languageNames = map[string]string{
	model.LangUz: "Uzbek",
	model.LangEn: "English",
	model.LangRu: "Russian",
}

const systemPrompt = "You are a professional translator for a personal portfolio site. " +
	"Translate the given text preserving Markdown formatting, tone and technical terms. " +
	"Respond with only a JSON object mapping language codes to translations, no extra text."

// Translator produces machine translations for LocalizedText values.
type Translator struct {
	client  openai.Client
	model   string
	enabled bool
}

// New creates a translator. An empty API key yields a disabled translator
// whose methods report an error.
func New(apiKey, chatModel string) *Translator {
	if apiKey == "" {
		return &Translator{}
	}
	return &Translator{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   chatModel,
		enabled: true,
	}
}

// Enabled reports whether an API key is configured.
func (t *Translator) Enabled() bool { return t.enabled }

// FillMissing translates the text into every supported language that has no
// value yet. Existing translations are never overwritten. Plain strings are
// promoted to a per-language map using the source language.
func (t *Translator) FillMissing(ctx context.Context, text model.LocalizedText, sourceLang string) (model.LocalizedText, error) {
	if !t.enabled {
		return text, fmt.Errorf("translation is not configured")
	}
	if !i18n.IsSupported(sourceLang) {
		return text, fmt.Errorf("unsupported source language %q", sourceLang)
	}

	if text.Map == nil {
		if text.Plain == "" {
			return text, fmt.Errorf("nothing to translate")
		}
		m := map[string]string{}
		for _, lang := range model.Languages {
			m[lang] = ""
		}
		m[sourceLang] = text.Plain
		text = model.LocalizedText{Map: m}
	}

	source := text.Map[sourceLang]
	if source == "" {
		return text, fmt.Errorf("no source text in language %q", sourceLang)
	}

	missing := text.Missing()
	if len(missing) == 0 {
		return text, nil
	}

	translations, err := t.translate(ctx, source, sourceLang, missing)
	if err != nil {
		return text, err
	}

	out := model.LocalizedText{Map: map[string]string{}}
	for k, v := range text.Map {
		out.Map[k] = v
	}
	for _, lang := range missing {
		if v := translations[lang]; v != "" {
			out.Map[lang] = v
		}
	}
	return out, nil
}

func (t *Translator) translate(ctx context.Context, source, sourceLang string, targets []string) (map[string]string, error) {
	var names []string
	for _, lang := range targets {
		names = append(names, fmt.Sprintf("%s (%q)", languageNames[lang], lang))
	}
	prompt := fmt.Sprintf("Translate the following %s text into %s.\n\n%s",
		languageNames[sourceLang], strings.Join(names, " and "), source)

	resp, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(t.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return nil, fmt.Errorf("translation request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("translation: empty response")
	}

	return parseTranslations(resp.Choices[0].Message.Content)
}

// parseTranslations decodes the model's JSON reply, tolerating markdown code
// fences around the object.
func parseTranslations(content string) (map[string]string, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var out map[string]string
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("decoding translation response: %w", err)
	}
	return out, nil
}
