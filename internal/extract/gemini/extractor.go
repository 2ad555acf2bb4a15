package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/roommate-matcher/internal/profile"
	"github.com/spigell/roommate-matcher/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Extractor turns raw profile text into a structured record with Gemini.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200

	systemInstruction = "You are a careful data extraction assistant. Reply with JSON only."
)

func NewExtractor(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Extract asks the model for the structured fields of r. The id always comes
// from r. Fields the model leaves empty are filled from r.
func (e *Extractor) Extract(ctx context.Context, r profile.RawRecord) (profile.RawRecord, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return r, fmt.Errorf("%w: id is required", profile.ErrInvalidProfile)
	}
	if strings.TrimSpace(r.RawProfileText) == "" {
		return r, errors.New("raw profile text is empty")
	}

	known := r
	known.RawProfileText = ""
	recordJSON, err := json.MarshalIndent(known, "", "  ")
	if err != nil {
		return r, fmt.Errorf("marshal record: %w", err)
	}

	prompt := buildPrompt(id, string(recordJSON), r.RawProfileText)

	e.logger.Debug("gemini generate content request",
		zap.String("profile_id", id),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return r, err
	}

	e.logger.Debug("gemini generate content response",
		zap.String("profile_id", id),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	extracted, err := parseResponse(raw)
	if err != nil {
		return r, err
	}

	extracted.ID = id
	extracted.RawProfileText = r.RawProfileText

	return extracted.Merge(r), nil
}

func buildPrompt(id, recordJSON, text string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Profile ID: {{PROFILE_ID}}\n\nKnown fields:\n{{RECORD_JSON}}\n\nProfile text:\n{{PROFILE_TEXT}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{PROFILE_ID}}", id)
	prompt = strings.ReplaceAll(prompt, "{{RECORD_JSON}}", recordJSON)
	prompt = strings.ReplaceAll(prompt, "{{PROFILE_TEXT}}", strings.TrimSpace(text))
	return prompt
}

func parseResponse(raw string) (profile.RawRecord, error) {
	var out profile.RawRecord

	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return out, fmt.Errorf("parse gemini response: %w", err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       nullToEmpty,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(data); err != nil {
		return out, fmt.Errorf("decode gemini response: %w", err)
	}

	return out, nil
}

// nullToEmpty maps the "null" and "none" placeholders models like to emit to
// empty strings.
func nullToEmpty(_, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || to.Kind() != reflect.String {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "null", "none", "n/a", "unknown":
		return "", nil
	}
	return data, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// Keep only the outermost object when the model wraps it in prose.
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}
	return raw
}
