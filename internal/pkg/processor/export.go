package processor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/filterbench/internal/entity"
)

// Export re-encodes an artifact for download and names it after the source.
func Export(artifact *entity.Artifact, sourceName, format string) ([]byte, string, string, error) {
	var (
		target      imaging.Format
		contentType string
		ext         string
	)
	switch strings.ToLower(format) {
	case "", "png":
		target, contentType, ext = imaging.PNG, "image/png", "png"
	case "jpg", "jpeg":
		target, contentType, ext = imaging.JPEG, "image/jpeg", "jpg"
	default:
		return nil, "", "", fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidParameter, format)
	}

	img, err := imaging.Decode(bytes.NewReader(artifact.Data))
	if err != nil {
		return nil, "", "", err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, target, imaging.JPEGQuality(90)); err != nil {
		return nil, "", "", err
	}

	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	return buf.Bytes(), contentType, fmt.Sprintf("processed_%s.%s", base, ext), nil
}
