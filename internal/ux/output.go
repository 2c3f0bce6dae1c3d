package ux

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output format names accepted by the --output flag.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render writes data to w in the requested format. An empty format means
// text. Text output requires data to be a string or to implement
// fmt.Stringer; structured formats encode the value as-is.
func Render(w io.Writer, format string, data interface{}) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)

	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(data)

	case FormatText, "":
		switch v := data.(type) {
		case string:
			_, err := fmt.Fprintln(w, v)
			return err
		case fmt.Stringer:
			_, err := fmt.Fprintln(w, v.String())
			return err
		default:
			return fmt.Errorf("text output requires data to implement String() or be a string")
		}

	default:
		return fmt.Errorf("unknown output format: %s (supported: text, json, yaml)", format)
	}
}
