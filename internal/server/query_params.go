package server

import (
	"encoding/json"
	"strconv"
	"strings"
)

func parseIntDefault(value string, def int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return def
	}
	return parsed
}

// rawNumber flattens a JSON price field to its textual form. Clients send the
// amount as either a number or a string; the booking service does the actual
// validation.
func rawNumber(value any) string {
	switch cast := value.(type) {
	case nil:
		return ""
	case string:
		return cast
	case json.Number:
		return cast.String()
	case float64:
		return strconv.FormatFloat(cast, 'f', -1, 64)
	case int:
		return strconv.Itoa(cast)
	case int64:
		return strconv.FormatInt(cast, 10)
	default:
		return ""
	}
}
