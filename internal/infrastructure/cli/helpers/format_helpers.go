package helpers

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/phoenix-go/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseYAMLValue parses a string value as YAML, falling back to the literal string.
// "true" becomes a bool and "80" an int, which is what settings values need.
func ParseYAMLValue(input string) interface{} {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil || parsed == nil {
		return input
	}
	return parsed
}

// PrintJSON writes v as indented JSON.
func PrintJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// DescribeTrigger renders a trigger the way users speak it: prefix triggers get an ellipsis.
func DescribeTrigger(t domain.Trigger) string {
	if t.Kind == domain.TriggerPrefix {
		return strings.TrimSpace(t.Text) + " ..."
	}
	return t.Text
}
