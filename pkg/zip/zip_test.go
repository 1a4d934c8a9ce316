package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveAssetsAddsExtensions(t *testing.T) {
	archive := ArchiveAssets([]Asset{
		{Filename: "job-1-a", MIME: "image/png", Data: []byte("png-bytes")},
		{Filename: "job-1-b.jpg", MIME: "image/jpeg", Data: []byte("jpg-bytes")},
		{Filename: "job-1-c", MIME: "application/x-unknown", Data: []byte("raw")},
	})

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	want := map[string]string{
		"job-1-a.png": "png-bytes",
		"job-1-b.jpg": "jpg-bytes",
		"job-1-c":     "raw",
	}
	if len(zr.File) != len(want) {
		t.Fatalf("entries = %d, want %d", len(zr.File), len(want))
	}
	for _, f := range zr.File {
		data, ok := want[f.Name]
		if !ok {
			t.Fatalf("unexpected entry %q", f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry: %v", err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry: %v", err)
		}
		if string(got) != data {
			t.Fatalf("entry %q = %q, want %q", f.Name, got, data)
		}
	}
}
