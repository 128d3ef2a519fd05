// Package query extracts values from saved JSON result files using JSONPath
// expressions.
package query

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract resolves a JSONPath expression ($.summary.peak_infectious,
// $.result.series[3].infectious, $.result.series[*].tick) against a JSON
// document and returns the matched value.
func Extract(body []byte, jsonPath string) (any, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in result file")
	}

	value := gjson.GetBytes(body, convertJSONPath(jsonPath))
	if !value.Exists() {
		return nil, fmt.Errorf("path %q not found", jsonPath)
	}
	return value.Value(), nil
}

// ExtractString is Extract with the match rendered as its raw JSON text,
// convenient for printing.
func ExtractString(body []byte, jsonPath string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("invalid JSON in result file")
	}

	value := gjson.GetBytes(body, convertJSONPath(jsonPath))
	if !value.Exists() {
		return "", fmt.Errorf("path %q not found", jsonPath)
	}
	if value.Type == gjson.String {
		return value.Str, nil
	}
	return value.Raw, nil
}

// convertJSONPath converts JSONPath syntax to gjson path format.
// $.foo.bar -> foo.bar
// $.series[0].tick -> series.0.tick
// $.series[*].tick -> series.#.tick
func convertJSONPath(path string) string {
	if strings.HasPrefix(path, "$.") {
		path = path[2:]
	} else if strings.HasPrefix(path, "$") {
		path = path[1:]
	}

	var result strings.Builder
	i := 0
	for i < len(path) {
		if path[i] == '[' {
			j := i + 1
			for j < len(path) && path[j] != ']' {
				j++
			}
			if j < len(path) {
				content := path[i+1 : j]
				if content == "*" {
					result.WriteString(".#")
				} else {
					result.WriteByte('.')
					result.WriteString(content)
				}
				i = j + 1
				continue
			}
		}
		result.WriteByte(path[i])
		i++
	}

	return result.String()
}
