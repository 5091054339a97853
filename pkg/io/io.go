// Package io reads and writes architecture models as JSON files.
//
// The on-disk format is the JSON serialization of [model.Model]: stable,
// human-readable, and round-trippable (read → layout → write → re-read
// yields an equivalent model).
package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/archonhq/archon/pkg/errors"
	"github.com/archonhq/archon/pkg/model"
)

// ReadModel decodes a model from r and validates it.
func ReadModel(r io.Reader) (*model.Model, error) {
	var m model.Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode model")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadModelFile reads a model from a JSON file.
func ReadModelFile(path string) (*model.Model, error) {
	if err := errors.ValidateModelPath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "model file %s does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadModel(f)
}

// WriteModel encodes a model as indented JSON to w.
func WriteModel(m *model.Model, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// WriteModelFile writes a model to a JSON file.
// The file is created with 0644 permissions.
func WriteModelFile(m *model.Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteModel(m, f)
}
