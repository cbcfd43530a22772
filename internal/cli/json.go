package cli

import (
	"encoding/json"
	"io"

	"github.com/hyperjump/sizof/internal/models"
)

const jsonIndent = "    "

// JSONRenderer emits the complete entry list once, after the last path.
type JSONRenderer struct {
	w io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{w: w}
}

// Update does nothing; structured output is never incremental.
func (j *JSONRenderer) Update(*models.RunResult) error {
	return nil
}

// Interrupt does nothing; nothing is drawn before Finish.
func (j *JSONRenderer) Interrupt() {}

// Finish writes the entries as a single indented JSON array.
func (j *JSONRenderer) Finish(result *models.RunResult) error {
	entries := result.Entries
	if entries == nil {
		entries = []models.Entry{}
	}
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", jsonIndent)
	enc.SetEscapeHTML(false)
	return enc.Encode(entries)
}
