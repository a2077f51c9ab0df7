package logger

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/jobs"
)

const (
	// FieldProvider is the structured log field key for the job source name.
	FieldProvider = "provider"
	// FieldModel is the structured log field key for the embedding model identifier.
	FieldModel = "embedding_model"
	// FieldListingID is the structured log field key for a stored listing id.
	FieldListingID = "listing_id"
	// FieldFingerprint is the structured log field key for a listing fingerprint.
	FieldFingerprint = "fingerprint"
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
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ProviderFields describes a job source and, when known, the embedding model.
func ProviderFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// ListingFields identifies a listing in log entries.
func ListingFields(l jobs.Listing) []zap.Field {
	return StringFields(
		StringField{Key: FieldListingID, Value: l.ID},
		StringField{Key: FieldFingerprint, Value: l.Fingerprint},
		StringField{Key: "external_id", Value: l.ExternalID},
		StringField{Key: "source_platform", Value: l.SourcePlatform},
	)
}
