package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// looseInt reads an integer the way a lenient form field would: a JSON
// number or a string with a leading integer ("12", "12 cups", "3.9").
// Fractions are truncated. It reports false when no integer is present.
func looseInt(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
	case 'n', 't', 'f', '[', '{':
		return 0, false
	default:
		text = string(raw)
	}

	text = strings.TrimSpace(text)
	end := 0
	if end < len(text) && (text[end] == '-' || text[end] == '+') {
		end++
	}
	digits := end
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.ParseInt(text[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
