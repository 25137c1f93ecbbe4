package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resolveFormat picks text for terminals and JSON otherwise when no format was asked for.
func resolveFormat(requested string, w io.Writer) (string, error) {
	switch requested {
	case "":
		if isTerminal(w) {
			return formatText, nil
		}
		return formatJSON, nil
	case formatJSON, formatYAML, formatText:
		return requested, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json, yaml or text)", requested)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// ingestResult is the one-line outcome printed by ingest.
type ingestResult struct {
	Status        string `json:"status,omitempty" yaml:"status,omitempty"`
	ChunksCreated *int   `json:"chunks_created,omitempty" yaml:"chunks_created,omitempty"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

// chunksResult is the listing payload.
type chunksResult struct {
	Status      string   `json:"status" yaml:"status"`
	TotalChunks *int     `json:"total_chunks,omitempty" yaml:"total_chunks,omitempty"`
	Chunks      []string `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	Detail      string   `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// noChunksDetail is reported before anything was ingested.
const noChunksDetail = "No chunks available. Please upload a PDF first."
