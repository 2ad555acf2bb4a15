package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/roommate-matcher/internal/profile"
	"github.com/spigell/roommate-matcher/internal/ranking"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"

	FieldProfileID  = "profile_id"
	FieldCity       = "city"
	FieldArea       = "area"
	FieldRoommateID = "roommate_id"
	FieldScore      = "score"
	FieldMode       = "mode"
	FieldRedFlags   = "red_flags"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced by a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns standard zap fields that describe the AI provider and model.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the common AI fields to the provided logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// ProfileFields describes a profile by id and location.
func ProfileFields(p *profile.Profile) []zap.Field {
	if p == nil {
		return nil
	}
	return StringFields(
		StringField{Key: FieldProfileID, Value: p.ID},
		StringField{Key: FieldCity, Value: p.City},
		StringField{Key: FieldArea, Value: p.Area},
	)
}

// MatchFields describes a ranked match. Red flags are listed by type.
func MatchFields(m ranking.MatchResult) []zap.Field {
	flags := make([]string, 0, len(m.RedFlags))
	for _, f := range m.RedFlags {
		flags = append(flags, string(f.Type))
	}

	return []zap.Field{
		zap.String(FieldRoommateID, m.RoommateID),
		zap.Int(FieldScore, m.Score),
		zap.String(FieldMode, string(m.Mode)),
		zap.Strings(FieldRedFlags, flags),
	}
}
