package badge

import "encoding/json"

type shieldsEndpoint struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

// ShieldsJSON renders a shields.io endpoint document.
func (b Badge) ShieldsJSON() ([]byte, error) {
	out, err := json.MarshalIndent(shieldsEndpoint{
		SchemaVersion: 1,
		Label:         b.Label,
		Message:       b.Grade,
		Color:         b.Color,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
