package invoicepdf

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// File is a named document inside an archive.
type File struct {
	Name string
	Data []byte
}

// Zip packs files into one archive. Duplicate names get a numeric suffix.
func Zip(files []File, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	seen := make(map[string]int, len(files))
	for _, f := range files {
		name := f.Name
		if n := seen[f.Name]; n > 0 {
			name = fmt.Sprintf("%d-%s", n, f.Name)
		}
		seen[f.Name]++

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}
	return buf.Bytes(), nil
}
