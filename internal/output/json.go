package output

import "encoding/json"

// FormatJSONIndent renders any payload as indented JSON for CLI display.
func FormatJSONIndent(value any) (string, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
