package panels

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"inkcast/internal/services"
)

// Panel is one ordered story panel. Index starts at 1 and is contiguous
// within a document.
type Panel struct {
	Index     int
	ImagePath string
	Checksum  string
	Caption   string
}

// Document is an ordered set of panels with identifying metadata.
type Document struct {
	ID     string
	Title  string
	Panels []Panel
}

// ReadImage returns the panel's image bytes.
func (p Panel) ReadImage() ([]byte, error) {
	data, err := os.ReadFile(p.ImagePath)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "panels", "read image",
			fmt.Sprintf("panel %d", p.Index), err)
	}
	return data, nil
}

// fingerprintFile hashes a panel image for dedup and cache keys.
func fingerprintFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
