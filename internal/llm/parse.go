package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spec-kit/quiz-service/internal/domain"
)

// ParseAssessment decodes a provider reply into an Assessment.
// Raw control characters inside JSON strings are accepted, models emit
// literal newlines in feedback. Missing keys yield empty fields.
func ParseAssessment(raw string) (domain.Assessment, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(escapeControlChars([]byte(raw)), &obj); err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if obj == nil {
		return domain.Assessment{}, fmt.Errorf("%w: not a JSON object", ErrMalformedResponse)
	}
	return domain.NewAssessment(field(obj, "feedback"), field(obj, "score")), nil
}

func field(obj map[string]json.RawMessage, key string) string {
	raw, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// escapeControlChars rewrites bytes below 0x20 that appear inside JSON string
// literals as escape sequences. Bytes outside strings are left alone.
func escapeControlChars(in []byte) []byte {
	out := make([]byte, 0, len(in))
	inString, escaped := false, false
	for _, b := range in {
		switch {
		case escaped:
			escaped = false
		case inString && b == '\\':
			escaped = true
		case b == '"':
			inString = !inString
		case inString && b < 0x20:
			switch b {
			case '\n':
				out = append(out, '\\', 'n')
			case '\r':
				out = append(out, '\\', 'r')
			case '\t':
				out = append(out, '\\', 't')
			default:
				out = append(out, []byte(fmt.Sprintf(`\u%04x`, b))...)
			}
			continue
		}
		out = append(out, b)
	}
	return out
}
