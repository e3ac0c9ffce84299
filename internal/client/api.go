package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/agbru/omnisum/internal/endpoint"
	apperrors "github.com/agbru/omnisum/internal/errors"
)

// Summary types accepted by SummarizeText.
const (
	SummaryShort  = "short"
	SummaryPoints = "points"
	SummaryBoth   = "both"
)

// StoryImages is the number of images a story is built from.
const StoryImages = 4

type resultResponse struct {
	Result string `json:"result"`
}

func requireArtifact(a *Artifact) error {
	if a.Empty() {
		return apperrors.MissingInputError{}
	}
	return nil
}

// Infer posts the artifact to an inference endpoint and returns its result
// text. An empty string with a nil error means the endpoint answered without
// a result.
func (c *Client) Infer(ctx context.Context, ep endpoint.Endpoint, a *Artifact) (string, error) {
	const op = "infer"
	if err := requireArtifact(a); err != nil {
		return "", err
	}
	data, err := c.postMultipart(ctx, op, ep.Path, filePart(ep.FormField(), a))
	if err != nil {
		return "", err
	}
	var resp resultResponse
	if err := decode(op, data, &resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Result), nil
}

// Caption returns the raw caption text, one candidate per line.
func (c *Client) Caption(ctx context.Context, a *Artifact) (string, error) {
	const op = "caption"
	if err := requireArtifact(a); err != nil {
		return "", err
	}
	data, err := c.postMultipart(ctx, op, "/generate_caption", filePart("file", a))
	if err != nil {
		return "", err
	}
	var resp resultResponse
	if err := decode(op, data, &resp); err != nil {
		return "", err
	}
	return resp.Result, nil
}

// AskImage asks a question about an image.
func (c *Client) AskImage(ctx context.Context, a *Artifact, question string) (string, error) {
	const op = "ask image"
	if err := requireArtifact(a); err != nil {
		return "", err
	}
	data, err := c.postMultipart(ctx, op, "/ask_question", filePart("file", a), valuePart("question", question))
	if err != nil {
		return "", err
	}
	var resp resultResponse
	if err := decode(op, data, &resp); err != nil {
		return "", err
	}
	return resp.Result, nil
}

// TextSummary holds the summaries of a text. Only the fields matching the
// requested summary type are set.
type TextSummary struct {
	Short  string
	Points string
}

// SummarizeText summarizes text. kind is SummaryShort, SummaryPoints or
// SummaryBoth.
func (c *Client) SummarizeText(ctx context.Context, text, kind string) (TextSummary, error) {
	const op = "summarize text"
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case "":
		kind = SummaryShort
	case SummaryShort, SummaryPoints, SummaryBoth:
	default:
		return TextSummary{}, fmt.Errorf("%s: unknown summary type %q", op, kind)
	}
	data, err := c.postJSON(ctx, op, "/summarize", map[string]string{"text": text, "type": kind})
	if err != nil {
		return TextSummary{}, err
	}
	var resp struct {
		Summary       string `json:"summary"`
		ShortSummary  string `json:"short_summary"`
		PointsSummary string `json:"points_summary"`
	}
	if err := decode(op, data, &resp); err != nil {
		return TextSummary{}, err
	}
	switch kind {
	case SummaryShort:
		return TextSummary{Short: resp.Summary}, nil
	case SummaryPoints:
		return TextSummary{Points: resp.Summary}, nil
	}
	return TextSummary{Short: resp.ShortSummary, Points: resp.PointsSummary}, nil
}

// PDFSummary is the answer of the PDF summarizer.
type PDFSummary struct {
	Summary       string `json:"summary"`
	TextAvailable bool   `json:"text_available"`
	SessionID     string `json:"session_id"`
}

// SummarizePDF uploads a PDF. The backend keeps the extracted text in the
// session, which AskPDF and TextToSpeech then use.
func (c *Client) SummarizePDF(ctx context.Context, a *Artifact) (PDFSummary, error) {
	const op = "summarize pdf"
	if err := requireArtifact(a); err != nil {
		return PDFSummary{}, err
	}
	data, err := c.postMultipart(ctx, op, "/summarize_pdf", filePart("pdf", a))
	if err != nil {
		return PDFSummary{}, err
	}
	var resp PDFSummary
	if err := decode(op, data, &resp); err != nil {
		return PDFSummary{}, err
	}
	return resp, nil
}

// AskPDF asks a question about the PDF uploaded earlier in this session.
func (c *Client) AskPDF(ctx context.Context, question string) (string, error) {
	const op = "ask pdf"
	data, err := c.postJSON(ctx, op, "/ask_question", map[string]string{"question": question})
	if err != nil {
		return "", err
	}
	var resp struct {
		Answer string `json:"answer"`
	}
	if err := decode(op, data, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// CreatePDF renders text to a PDF on the backend and returns its download
// URL, relative to the backend root.
func (c *Client) CreatePDF(ctx context.Context, text string) (string, error) {
	const op = "create pdf"
	data, err := c.postJSON(ctx, op, "/create_pdf", map[string]string{"text": text})
	if err != nil {
		return "", err
	}
	var resp struct {
		PDFURL string `json:"pdf_url"`
	}
	if err := decode(op, data, &resp); err != nil {
		return "", err
	}
	if resp.PDFURL == "" {
		return "", &DecodeError{Op: op, Cause: fmt.Errorf("missing pdf_url")}
	}
	return resp.PDFURL, nil
}

// Download copies the resource at ref (a backend path or absolute URL) to w
// and returns the number of bytes written.
func (c *Client) Download(ctx context.Context, ref string, w io.Writer) (int64, error) {
	return c.stream(ctx, "download", ref, w)
}

// TextToSpeech streams the audio rendering of the session's PDF text to w.
func (c *Client) TextToSpeech(ctx context.Context, w io.Writer) (int64, error) {
	return c.stream(ctx, "text to speech", "/text_to_speech", w)
}

func (c *Client) stream(ctx context.Context, op, ref string, w io.Writer) (int64, error) {
	data, err := c.do(ctx, op, http.MethodGet, ref, "", nil)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("%s: writing output: %w", op, err)
	}
	return int64(n), nil
}

// VideoSummary is the answer of the video summarizer. Keyframes are base64
// JPEG images; see DecodeKeyframe.
type VideoSummary struct {
	Summary   string   `json:"summary"`
	Keyframes []string `json:"keyframes"`
}

// SummarizeVideo uploads a video for summarization.
func (c *Client) SummarizeVideo(ctx context.Context, a *Artifact) (VideoSummary, error) {
	const op = "summarize video"
	if err := requireArtifact(a); err != nil {
		return VideoSummary{}, err
	}
	data, err := c.postMultipart(ctx, op, "/summarize_video", filePart("file", a))
	if err != nil {
		return VideoSummary{}, err
	}
	var resp VideoSummary
	if err := decode(op, data, &resp); err != nil {
		return VideoSummary{}, err
	}
	return resp, nil
}

// VideoNotes uploads a video and returns study notes for it.
func (c *Client) VideoNotes(ctx context.Context, a *Artifact) (string, error) {
	const op = "video notes"
	if err := requireArtifact(a); err != nil {
		return "", err
	}
	data, err := c.postMultipart(ctx, op, "/notes", filePart("file", a))
	if err != nil {
		return "", err
	}
	var resp struct {
		Notes string `json:"notes"`
	}
	if err := decode(op, data, &resp); err != nil {
		return "", err
	}
	return resp.Notes, nil
}

// Story is a short story built from four images, with the per-image
// summaries it was generated from.
type Story struct {
	Summaries []string
	Text      string
}

// GenerateStory summarizes four images and then asks for a story connecting
// them.
func (c *Client) GenerateStory(ctx context.Context, images [StoryImages]*Artifact) (Story, error) {
	const op = "generate story"
	parts := make([]formPart, 0, StoryImages)
	for i, img := range images {
		if img.Empty() {
			return Story{}, fmt.Errorf("%s: image %d is missing", op, i+1)
		}
		parts = append(parts, filePart(fmt.Sprintf("image%d", i+1), img))
	}
	data, err := c.postMultipart(ctx, op, "/generate_summaries", parts...)
	if err != nil {
		return Story{}, err
	}
	var summaries struct {
		Summaries []string `json:"summaries"`
	}
	if err := decode(op, data, &summaries); err != nil {
		return Story{}, err
	}
	data, err = c.postJSON(ctx, op, "/generate_story", map[string][]string{"summaries": summaries.Summaries})
	if err != nil {
		return Story{}, err
	}
	var story struct {
		Story string `json:"story"`
	}
	if err := decode(op, data, &story); err != nil {
		return Story{}, err
	}
	return Story{Summaries: summaries.Summaries, Text: story.Story}, nil
}

// SummarizeLive sends a single camera frame as a data URL.
func (c *Client) SummarizeLive(ctx context.Context, frame *Artifact) (string, error) {
	const op = "summarize live"
	if err := requireArtifact(frame); err != nil {
		return "", err
	}
	data, err := c.postJSON(ctx, op, "/summarize-image", map[string]string{"image": frame.DataURL()})
	if err != nil {
		return "", err
	}
	var resp struct {
		Summary string `json:"summary"`
	}
	if err := decode(op, data, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}
