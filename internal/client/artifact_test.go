package client

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestLoadArtifactSniffsContentType(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"photo.bin", pngHeader, "image/png"},
		{"doc.pdf", []byte("%PDF-1.7\n..."), "application/pdf"},
		{"notes.json", []byte(`{"a":1}`), "application/json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, tt.data, 0o600); err != nil {
				t.Fatal(err)
			}
			a, err := LoadArtifact(path)
			if err != nil {
				t.Fatalf("LoadArtifact: %v", err)
			}
			if a.Name != tt.name {
				t.Errorf("Name = %q, want %q", a.Name, tt.name)
			}
			if a.ContentType != tt.want {
				t.Errorf("ContentType = %q, want %q", a.ContentType, tt.want)
			}
		})
	}
}

func TestLoadArtifactMissingFile(t *testing.T) {
	t.Parallel()
	if _, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestArtifactIsImmutable(t *testing.T) {
	t.Parallel()
	src := []byte("original")
	a := NewArtifact("a.txt", "text/plain", src)
	src[0] = 'X'

	got, _ := io.ReadAll(a.Reader())
	if string(got) != "original" {
		t.Errorf("artifact changed with its source slice: %q", got)
	}
	b := a.Bytes()
	b[0] = 'Y'
	again, _ := io.ReadAll(a.Reader())
	if string(again) != "original" {
		t.Errorf("artifact changed through Bytes(): %q", again)
	}
}

func TestArtifactReadersAreIndependent(t *testing.T) {
	t.Parallel()
	a := NewArtifact("a.png", "image/png", pngHeader)
	r1, r2 := a.Reader(), a.Reader()
	first, _ := io.ReadAll(r1)
	second, _ := io.ReadAll(r2)
	if !bytes.Equal(first, second) || len(first) != len(pngHeader) {
		t.Error("each Reader must start at the beginning of the payload")
	}
}

func TestArtifactEmpty(t *testing.T) {
	t.Parallel()
	var nilArtifact *Artifact
	if !nilArtifact.Empty() || nilArtifact.Size() != 0 {
		t.Error("nil artifact must be empty")
	}
	if !NewArtifact("a", "text/plain", nil).Empty() {
		t.Error("zero-length artifact must be empty")
	}
	if NewArtifact("a", "text/plain", []byte("x")).Empty() {
		t.Error("non-empty artifact reported empty")
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	t.Parallel()
	a := NewArtifact("frame.png", "image/png", pngHeader)
	url := a.DataURL()
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected data URL prefix: %s", url)
	}
	back, err := ParseDataURL("frame.png", url)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if back.ContentType != "image/png" || !bytes.Equal(back.Bytes(), pngHeader) {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestParseDataURLErrors(t *testing.T) {
	t.Parallel()
	for _, in := range []string{
		"http://example.com/a.png",
		"data:image/png;base64",
		"data:text/plain,hello",
		"data:image/png;base64,@@@",
	} {
		if _, err := ParseDataURL("x", in); err == nil {
			t.Errorf("ParseDataURL(%q) should fail", in)
		}
	}
}

func TestDecodeKeyframe(t *testing.T) {
	t.Parallel()
	want := []byte{0xFF, 0xD8, 0xFF}
	for _, in := range []string{"/9j/", "data:image/jpeg;base64,/9j/", " /9j/\n"} {
		got, err := DecodeKeyframe(in)
		if err != nil {
			t.Fatalf("DecodeKeyframe(%q): %v", in, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("DecodeKeyframe(%q) = %x, want %x", in, got, want)
		}
	}
	if _, err := DecodeKeyframe("not base64!"); err == nil {
		t.Error("expected an error for invalid base64")
	}
}
