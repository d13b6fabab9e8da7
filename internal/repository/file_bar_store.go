package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
)

// FileBarStore keeps one JSON document per (symbol, timeframe) under a root
// directory. Saves go through a temp file and rename so a crash mid-write
// leaves the previous document intact.
type FileBarStore struct {
	rootDir string
}

func NewFileBarStore(rootDir string) (*FileBarStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileBarStore{rootDir: rootDir}, nil
}

func (s *FileBarStore) filePath(symbol string, tf repository.Timeframe) string {
	name := fmt.Sprintf("%s_%s.json", sanitize(symbol), tf)
	return filepath.Join(s.rootDir, name)
}

// Load returns the stored bars for a key, or an empty slice when the key
// has never been saved.
func (s *FileBarStore) Load(_ context.Context, symbol string, tf repository.Timeframe) ([]models.Bar, error) {
	b, err := os.ReadFile(s.filePath(symbol, tf))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Bar{}, nil
		}
		return nil, fmt.Errorf("read store %s/%s: %w", symbol, tf, err)
	}

	var doc storeDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode store %s/%s: %w", symbol, tf, err)
	}
	return doc.toBars()
}

// Save replaces the document for a key with the normalized, sorted bars.
func (s *FileBarStore) Save(_ context.Context, symbol string, tf repository.Timeframe, bars []models.Bar) (models.CacheMetadata, error) {
	normalized := normalizeBars(bars)
	doc := buildDocument(symbol, tf, normalized)

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return models.CacheMetadata{}, fmt.Errorf("encode store %s/%s: %w", symbol, tf, err)
	}

	target := s.filePath(symbol, tf)
	tmp, err := os.CreateTemp(s.rootDir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return models.CacheMetadata{}, fmt.Errorf("temp store file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return models.CacheMetadata{}, fmt.Errorf("write store %s/%s: %w", symbol, tf, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return models.CacheMetadata{}, fmt.Errorf("close store %s/%s: %w", symbol, tf, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return models.CacheMetadata{}, fmt.Errorf("rename store %s/%s: %w", symbol, tf, err)
	}

	return buildMetadata(symbol, tf, normalized), nil
}

func sanitize(symbol string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '-'
		}
		return r
	}, symbol)
}
