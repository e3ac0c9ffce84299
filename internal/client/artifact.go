package client

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Artifact is a user-supplied file (image, video, PDF). It is immutable once
// built: every consumer reads it through a fresh Reader, so concurrent
// dispatches never share a read position.
type Artifact struct {
	Name        string
	ContentType string
	data        []byte
}

// NewArtifact copies data into a new artifact. An empty content type is
// sniffed from the bytes.
func NewArtifact(name, contentType string, data []byte) *Artifact {
	buf := make([]byte, len(data))
	copy(buf, data)
	if contentType == "" {
		contentType = detectContentType(name, buf)
	}
	return &Artifact{Name: name, ContentType: contentType, data: buf}
}

// LoadArtifact reads the file at path.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading artifact: %w", err)
	}
	return NewArtifact(filepath.Base(path), "", data), nil
}

// Empty reports whether there is nothing to send. A nil artifact is empty.
func (a *Artifact) Empty() bool { return a == nil || len(a.data) == 0 }

// Size returns the payload length in bytes.
func (a *Artifact) Size() int {
	if a == nil {
		return 0
	}
	return len(a.data)
}

// Reader returns a new reader positioned at the start of the payload.
func (a *Artifact) Reader() io.Reader { return bytes.NewReader(a.data) }

// Bytes returns a copy of the payload.
func (a *Artifact) Bytes() []byte {
	out := make([]byte, len(a.data))
	copy(out, a.data)
	return out
}

// DataURL encodes the artifact as a base64 data URL.
func (a *Artifact) DataURL() string {
	return "data:" + a.ContentType + ";base64," + base64.StdEncoding.EncodeToString(a.data)
}

// ParseDataURL decodes a base64 data URL into an artifact named name.
func ParseDataURL(name, s string) (*Artifact, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL: missing ','")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data URL: %w", err)
	}
	return NewArtifact(name, contentType, data), nil
}

// DecodeKeyframe decodes a base64 JPEG keyframe as returned by the video
// summarizer. A data URL prefix is tolerated.
func DecodeKeyframe(s string) ([]byte, error) {
	if _, payload, ok := strings.Cut(s, ","); ok && strings.HasPrefix(s, "data:") {
		s = payload
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decoding keyframe: %w", err)
	}
	return data, nil
}

func detectContentType(name string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if sniffed != "application/octet-stream" && !strings.HasPrefix(sniffed, "text/plain") {
		return sniffed
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return sniffed
}
