// Package analysis loads evaluation requests from analysis files for offline runs.
package analysis

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Load reads an analysis file. The format follows the extension: .yaml/.yml,
// .toml or .json. A file without an ID is named after its base name.
func Load(path string) (domain.EvaluationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.EvaluationRequest{}, fmt.Errorf("read analysis file: %w", err)
	}

	req, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return domain.EvaluationRequest{}, fmt.Errorf("%s: %w", path, err)
	}
	if req.ID == "" {
		req.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return req, nil
}

// Decode parses data in the format named by ext. Unknown fields are rejected so
// typos in hand-written files surface early.
func Decode(data []byte, ext string) (domain.EvaluationRequest, error) {
	var req domain.EvaluationRequest
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&req); err != nil {
			return domain.EvaluationRequest{}, fmt.Errorf("decode yaml: %w", err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &req)
		if err != nil {
			return domain.EvaluationRequest{}, fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return domain.EvaluationRequest{}, fmt.Errorf("decode toml: unknown key %s", undecoded[0])
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return domain.EvaluationRequest{}, fmt.Errorf("decode json: %w", err)
		}
	default:
		return domain.EvaluationRequest{}, fmt.Errorf("unsupported analysis file extension %q", ext)
	}
	return req, nil
}
