package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/hr-assist/internal/ai"
	"github.com/xeipuuv/gojsonschema"
)

type resumePayload struct {
	Name              string   `mapstructure:"name"`
	Skills            []string `mapstructure:"skills"`
	ExperienceSummary string   `mapstructure:"experience_summary"`
	Education         string   `mapstructure:"education"`
	FitScore          float64  `mapstructure:"fit_score"`
	Reason            string   `mapstructure:"reason"`
}

type culturePayload struct {
	CandidateName string  `mapstructure:"candidate_name"`
	FitScore      float64 `mapstructure:"fit_score"`
	Explanation   string  `mapstructure:"explanation"`
}

type talentPayload struct {
	Rankings []struct {
		Index int     `mapstructure:"index"`
		Score float64 `mapstructure:"score"`
	} `mapstructure:"rankings"`
}

// decodePayload strips code fences, validates the reply against schema and
// decodes it leniently into out. Numbers sent as strings are accepted.
func decodePayload(name string, schema *gojsonschema.Schema, raw string, out any) error {
	cleaned := extractJSON(raw)

	if err := validatePayload(name, schema, cleaned); err != nil {
		return err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return fmt.Errorf("%w: parse %s reply: %w", ai.ErrMalformedResponse, name, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("create %s decoder: %w", name, err)
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("%w: decode %s reply: %w", ai.ErrMalformedResponse, name, err)
	}

	return nil
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
	return strings.TrimSpace(raw)
}
