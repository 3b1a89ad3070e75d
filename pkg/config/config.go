// Package config implements the ambient graph-response loader (§4.8): read
// a GraphResponse from a JSON file (or stdin when path is "-"), then run
// its boundary validation.
//
// Grounded on the teacher's pkg/dungeon.LoadConfig (os.ReadFile, then parse,
// then Validate, each failure wrapped with fmt.Errorf("...: %w", err)) and
// pkg/parity.LoadProfile, generalized from YAML to the wire JSON format §6
// specifies and from a file path to a file-path-or-stdin source.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dshills/semgraph-layout/pkg/semgraph"
)

// LoadGraphResponse reads and validates a GraphResponse from path. Passing
// "-" reads from stdin instead of opening a file, matching the CLI's
// (§4.9) convention for piping graph input.
func LoadGraphResponse(path string) (semgraph.GraphResponse, error) {
	data, err := readSource(path)
	if err != nil {
		return semgraph.GraphResponse{}, fmt.Errorf("config: reading graph response %s: %w", path, err)
	}

	var resp semgraph.GraphResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return semgraph.GraphResponse{}, fmt.Errorf("config: parsing graph response %s: %w", path, err)
	}

	if err := resp.Validate(); err != nil {
		return semgraph.GraphResponse{}, fmt.Errorf("config: invalid graph response %s: %w", path, err)
	}

	return resp, nil
}

func readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
