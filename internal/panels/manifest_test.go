package panels

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkcast/internal/services"
)

func writeDocument(t *testing.T, dir string, m manifest) {
	t.Helper()
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeImage(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDocumentOrdersAndHashesPanels(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "01.png", "image-one")
	writeImage(t, dir, "02.png", "image-two")
	writeDocument(t, dir, manifest{
		Title: "Night Patrol",
		Panels: []manifestPanel{
			{Image: "01.png"},
			{Image: "02.png", Caption: "rooftop chase"},
		},
	})

	doc, err := LoadDocument(dir)
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}
	if doc.Title != "Night Patrol" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.ID == "" {
		t.Error("expected generated document ID")
	}
	if len(doc.Panels) != 2 {
		t.Fatalf("got %d panels", len(doc.Panels))
	}
	if doc.Panels[0].Index != 1 || doc.Panels[1].Index != 2 {
		t.Errorf("indices = %d, %d", doc.Panels[0].Index, doc.Panels[1].Index)
	}
	if doc.Panels[0].Checksum == "" || doc.Panels[0].Checksum == doc.Panels[1].Checksum {
		t.Error("checksums missing or not distinct")
	}
	if doc.Panels[1].Caption != "rooftop chase" {
		t.Errorf("Caption = %q", doc.Panels[1].Caption)
	}
}

func TestLoadDocumentIdenticalImagesShareChecksum(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "a.png", "same-bytes")
	writeImage(t, dir, "b.png", "same-bytes")
	writeDocument(t, dir, manifest{
		Panels: []manifestPanel{{Image: "a.png"}, {Image: "b.png"}},
	})

	doc, err := LoadDocument(dir)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Panels[0].Checksum != doc.Panels[1].Checksum {
		t.Error("identical images should share a checksum")
	}
}

func TestLoadDocumentRejectsSequenceGap(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "01.png", "one")
	writeImage(t, dir, "03.png", "three")
	writeDocument(t, dir, manifest{
		Panels: []manifestPanel{
			{Index: 1, Image: "01.png"},
			{Index: 3, Image: "03.png"},
		},
	})

	_, err := LoadDocument(dir)
	if err == nil {
		t.Fatal("expected error for sequence gap")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("error not tagged validation: %v", err)
	}
	if !strings.Contains(err.Error(), "gap at index 2") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadDocumentRejectsDuplicateIndex(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "01.png", "one")
	writeImage(t, dir, "02.png", "two")
	writeDocument(t, dir, manifest{
		Panels: []manifestPanel{
			{Index: 1, Image: "01.png"},
			{Index: 1, Image: "02.png"},
		},
	})

	if _, err := LoadDocument(dir); err == nil || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadDocumentMissingImage(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, manifest{
		Panels: []manifestPanel{{Image: "absent.png"}},
	})

	if _, err := LoadDocument(dir); err == nil || !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadDocumentEmptyManifest(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, manifest{Title: "Empty"})

	if _, err := LoadDocument(dir); err == nil || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
