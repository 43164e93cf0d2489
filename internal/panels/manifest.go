package panels

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"inkcast/internal/services"
)

// ManifestName is the expected manifest file inside a document directory.
const ManifestName = "document.json"

type manifest struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Panels []manifestPanel `json:"panels"`
}

type manifestPanel struct {
	Index   int    `json:"index"`
	Image   string `json:"image"`
	Caption string `json:"caption,omitempty"`
}

// LoadDocument reads a document manifest and resolves its panels.
// The path may be the manifest file itself or a directory containing one.
// Loading fails fast when the sequence has gaps, duplicates, or missing
// image files.
func LoadDocument(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "panels", "load document", path, err)
	}
	manifestPath := path
	if info.IsDir() {
		manifestPath = filepath.Join(path, ManifestName)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "panels", "read manifest", manifestPath, err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, services.Wrap(services.ErrValidation, "panels", "parse manifest", manifestPath, err)
	}
	if len(m.Panels) == 0 {
		return nil, services.Wrap(services.ErrValidation, "panels", "parse manifest",
			"document contains no panels", nil)
	}

	baseDir := filepath.Dir(manifestPath)
	doc := &Document{
		ID:     strings.TrimSpace(m.ID),
		Title:  strings.TrimSpace(m.Title),
		Panels: make([]Panel, 0, len(m.Panels)),
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Title == "" {
		doc.Title = filepath.Base(baseDir)
	}

	for i, entry := range m.Panels {
		index := entry.Index
		if index == 0 {
			index = i + 1
		}
		imagePath := entry.Image
		if !filepath.IsAbs(imagePath) {
			imagePath = filepath.Join(baseDir, imagePath)
		}
		checksum, err := fingerprintFile(imagePath)
		if err != nil {
			return nil, services.Wrap(services.ErrNotFound, "panels", "hash image",
				fmt.Sprintf("panel %d: %s", index, entry.Image), err)
		}
		doc.Panels = append(doc.Panels, Panel{
			Index:     index,
			ImagePath: imagePath,
			Checksum:  checksum,
			Caption:   strings.TrimSpace(entry.Caption),
		})
	}

	if err := validateSequence(doc.Panels); err != nil {
		return nil, err
	}
	return doc, nil
}

// validateSequence requires indices to run 1..n without gaps or repeats.
func validateSequence(list []Panel) error {
	seen := make(map[int]struct{}, len(list))
	for _, panel := range list {
		if panel.Index < 1 {
			return services.Wrap(services.ErrValidation, "panels", "validate",
				fmt.Sprintf("panel index %d out of range", panel.Index), nil)
		}
		if _, dup := seen[panel.Index]; dup {
			return services.Wrap(services.ErrValidation, "panels", "validate",
				fmt.Sprintf("duplicate panel index %d", panel.Index), nil)
		}
		seen[panel.Index] = struct{}{}
	}
	for i := 1; i <= len(list); i++ {
		if _, ok := seen[i]; !ok {
			return services.Wrap(services.ErrValidation, "panels", "validate",
				fmt.Sprintf("panel sequence has a gap at index %d", i), nil)
		}
	}
	return nil
}
