package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"business-idea-workers/internal/models"

	"gopkg.in/yaml.v3"
)

// FileSource reads a catalog document from disk. Files ending in .json are
// decoded as JSON, everything else as YAML.
type FileSource struct {
	Path string
}

type catalogDocument struct {
	Version string                `json:"version" yaml:"version"`
	Ideas   []models.IdeaTemplate `json:"ideas" yaml:"ideas"`
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

func (s *FileSource) Load(_ context.Context) ([]models.IdeaTemplate, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc catalogDocument
	if strings.EqualFold(filepath.Ext(s.Path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", s.Path, err)
	}
	return doc.Ideas, nil
}
