package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/agbru/omnisum/internal/cli"
	"github.com/agbru/omnisum/internal/client"
	"github.com/agbru/omnisum/internal/config"
	apperrors "github.com/agbru/omnisum/internal/errors"
	"github.com/agbru/omnisum/internal/format"
	"github.com/agbru/omnisum/internal/logging"
)

// Download names used when --output is not set.
const (
	defaultPDFOutput    = "summary.pdf"
	defaultSpeechOutput = "speech.mp3"
)

type taskFunc func(a *Application, ctx context.Context, out io.Writer, c *client.Client) error

var tasks = map[string]taskFunc{
	config.TaskCaption:       (*Application).caption,
	config.TaskAsk:           (*Application).ask,
	config.TaskText:          (*Application).summarizeText,
	config.TaskPDF:           (*Application).summarizePDF,
	config.TaskPDFAsk:        (*Application).askPDF,
	config.TaskCreatePDF:     (*Application).createPDF,
	config.TaskTTS:           (*Application).textToSpeech,
	config.TaskVideo:         (*Application).summarizeVideo,
	config.TaskNotes:         (*Application).videoNotes,
	config.TaskStory:         (*Application).story,
	config.TaskLive:          (*Application).live,
	config.TaskHistory:       (*Application).history,
	config.TaskHistoryDelete: (*Application).deleteHistory,
}

// runTask runs one of the single-endpoint tasks.
func (a *Application) runTask(ctx context.Context, out io.Writer, c *client.Client) int {
	fn, ok := tasks[a.Config.Task]
	if !ok {
		return apperrors.HandleError(apperrors.NewConfigError("unknown task %q", a.Config.Task), a.ErrWriter)
	}
	if err := fn(a, ctx, out, c); err != nil {
		return apperrors.HandleError(a.classify(err), a.ErrWriter)
	}
	return apperrors.ExitSuccess
}

// classify turns client timeouts into a TimeoutError.
func (a *Application) classify(err error) error {
	var netErr net.Error
	if !errors.Is(err, context.Canceled) && errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.TimeoutError{Operation: a.Config.Task, Limit: a.Config.Timeout}
	}
	return err
}

func (a *Application) requireQuestion() (string, error) {
	q := strings.TrimSpace(a.Config.Question)
	if q == "" {
		return "", apperrors.MissingInputError{Reason: "no question given (use --question)"}
	}
	return q, nil
}

// inputText returns --text, or the content of --file when --text is empty.
func (a *Application) inputText() (string, error) {
	if text := strings.TrimSpace(a.Config.Text); text != "" {
		return text, nil
	}
	if a.Config.File != "" {
		data, err := os.ReadFile(a.Config.File)
		if err != nil {
			return "", apperrors.MissingInputError{Reason: err.Error()}
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			return text, nil
		}
	}
	return "", apperrors.MissingInputError{Reason: "no text given (use --text or --file)"}
}

// saveText writes text to --output when it is set.
func (a *Application) saveText(out io.Writer, text string) error {
	if a.Config.OutputFile == "" {
		return nil
	}
	if err := cli.WriteTextToFile(a.Config.OutputFile, text); err != nil {
		return err
	}
	cli.DisplaySaved(out, a.Config.OutputFile, a.Config.Quiet)
	return nil
}

// download streams a backend resource into path.
func (a *Application) download(out io.Writer, path string, fetch func(io.Writer) (int64, error)) error {
	f, err := cli.CreateOutputFile(path)
	if err != nil {
		return err
	}
	n, err := fetch(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	a.Logger.Debug("download complete", logging.String("path", path), logging.Uint64("bytes", uint64(n)))
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Downloaded %s.\n", format.FormatBytes(uint64(n)))
	}
	cli.DisplaySaved(out, path, a.Config.Quiet)
	return nil
}

func (a *Application) outputOr(def string) string {
	if a.Config.OutputFile != "" {
		return a.Config.OutputFile
	}
	return def
}

func (a *Application) caption(ctx context.Context, out io.Writer, c *client.Client) error {
	artifact, err := a.loadFile("image")
	if err != nil {
		return err
	}
	raw, err := c.Caption(ctx, artifact)
	if err != nil {
		return err
	}
	captions := cli.FormatCaptions(raw)
	cli.DisplayCaptions(out, captions)
	return a.saveText(out, strings.Join(captions, "\n"))
}

func (a *Application) ask(ctx context.Context, out io.Writer, c *client.Client) error {
	question, err := a.requireQuestion()
	if err != nil {
		return err
	}
	artifact, err := a.loadFile("image")
	if err != nil {
		return err
	}
	answer, err := c.AskImage(ctx, artifact, question)
	if err != nil {
		return err
	}
	cli.DisplayResult(out, "Answer", answer, a.Config.Quiet)
	return a.saveText(out, answer)
}

func (a *Application) summarizeText(ctx context.Context, out io.Writer, c *client.Client) error {
	text, err := a.inputText()
	if err != nil {
		return err
	}
	summary, err := c.SummarizeText(ctx, text, a.Config.SummaryType)
	if err != nil {
		return err
	}
	var saved []string
	if summary.Short != "" {
		cli.DisplayResult(out, "Short summary", summary.Short, a.Config.Quiet)
		saved = append(saved, summary.Short)
	}
	if summary.Points != "" {
		cli.DisplayResult(out, "Key points", summary.Points, a.Config.Quiet)
		saved = append(saved, summary.Points)
	}
	if len(saved) == 0 {
		cli.DisplayResult(out, "Summary", "No summary generated.", a.Config.Quiet)
	}
	return a.saveText(out, strings.Join(saved, "\n\n"))
}

func (a *Application) uploadPDF(ctx context.Context, c *client.Client) (client.PDFSummary, error) {
	artifact, err := a.loadFile("PDF")
	if err != nil {
		return client.PDFSummary{}, err
	}
	return c.SummarizePDF(ctx, artifact)
}

func (a *Application) summarizePDF(ctx context.Context, out io.Writer, c *client.Client) error {
	summary, err := a.uploadPDF(ctx, c)
	if err != nil {
		return err
	}
	cli.DisplayResult(out, "Summary", summary.Summary, a.Config.Quiet)
	if !summary.TextAvailable && !a.Config.Quiet {
		fmt.Fprintln(out, "No extractable text: questions and speech are unavailable for this PDF.")
	}
	return a.saveText(out, summary.Summary)
}

// askPDF uploads the PDF first: the backend answers from the text stored in
// the session of that upload.
func (a *Application) askPDF(ctx context.Context, out io.Writer, c *client.Client) error {
	question, err := a.requireQuestion()
	if err != nil {
		return err
	}
	if _, err := a.uploadPDF(ctx, c); err != nil {
		return err
	}
	answer, err := c.AskPDF(ctx, question)
	if err != nil {
		return err
	}
	cli.DisplayResult(out, "Answer", answer, a.Config.Quiet)
	return a.saveText(out, answer)
}

func (a *Application) createPDF(ctx context.Context, out io.Writer, c *client.Client) error {
	text, err := a.inputText()
	if err != nil {
		return err
	}
	ref, err := c.CreatePDF(ctx, text)
	if err != nil {
		return err
	}
	return a.download(out, a.outputOr(defaultPDFOutput), func(w io.Writer) (int64, error) {
		return c.Download(ctx, ref, w)
	})
}

func (a *Application) textToSpeech(ctx context.Context, out io.Writer, c *client.Client) error {
	if _, err := a.uploadPDF(ctx, c); err != nil {
		return err
	}
	return a.download(out, a.outputOr(defaultSpeechOutput), func(w io.Writer) (int64, error) {
		return c.TextToSpeech(ctx, w)
	})
}

// summarizeVideo prints the summary and, with --output, stores the
// keyframes in that directory.
func (a *Application) summarizeVideo(ctx context.Context, out io.Writer, c *client.Client) error {
	artifact, err := a.loadFile("video")
	if err != nil {
		return err
	}
	summary, err := c.SummarizeVideo(ctx, artifact)
	if err != nil {
		return err
	}
	cli.DisplayResult(out, "Summary", summary.Summary, a.Config.Quiet)
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Keyframes: %d\n", len(summary.Keyframes))
	}
	if a.Config.OutputFile == "" || len(summary.Keyframes) == 0 {
		return nil
	}
	frames := make([][]byte, 0, len(summary.Keyframes))
	for i, kf := range summary.Keyframes {
		frame, err := client.DecodeKeyframe(kf)
		if err != nil {
			return apperrors.WrapError(err, "keyframe %d", i+1)
		}
		frames = append(frames, frame)
	}
	paths, err := cli.WriteKeyframes(a.Config.OutputFile, frames)
	if err != nil {
		return err
	}
	for _, p := range paths {
		cli.DisplaySaved(out, p, a.Config.Quiet)
	}
	return nil
}

func (a *Application) videoNotes(ctx context.Context, out io.Writer, c *client.Client) error {
	artifact, err := a.loadFile("video")
	if err != nil {
		return err
	}
	notes, err := c.VideoNotes(ctx, artifact)
	if err != nil {
		return err
	}
	cli.DisplayResult(out, "Notes", notes, a.Config.Quiet)
	return a.saveText(out, notes)
}

func (a *Application) story(ctx context.Context, out io.Writer, c *client.Client) error {
	if len(a.Config.Images) != client.StoryImages {
		return apperrors.MissingInputError{
			Reason: fmt.Sprintf("a story needs %d images (use --images), got %d", client.StoryImages, len(a.Config.Images)),
		}
	}
	var images [client.StoryImages]*client.Artifact
	for i, path := range a.Config.Images {
		img, err := client.LoadArtifact(path)
		if err != nil {
			return apperrors.MissingInputError{Reason: err.Error()}
		}
		images[i] = img
	}
	story, err := c.GenerateStory(ctx, images)
	if err != nil {
		return err
	}
	if !a.Config.Quiet {
		for i, s := range story.Summaries {
			cli.DisplayResult(out, fmt.Sprintf("Image %d", i+1), s, false)
		}
		fmt.Fprintln(out)
	}
	cli.DisplayResult(out, "Story", story.Text, a.Config.Quiet)
	return a.saveText(out, story.Text)
}

// live sends one frame, read from --file, to the live summarizer.
func (a *Application) live(ctx context.Context, out io.Writer, c *client.Client) error {
	frame, err := a.loadFile("frame")
	if err != nil {
		return err
	}
	summary, err := c.SummarizeLive(ctx, frame)
	if err != nil {
		return err
	}
	cli.DisplayResult(out, "Summary", summary, a.Config.Quiet)
	return a.saveText(out, summary)
}

func (a *Application) history(ctx context.Context, out io.Writer, c *client.Client) error {
	entries, err := c.TextHistory(ctx)
	if err != nil {
		return err
	}
	cli.DisplayHistory(out, entries)
	return nil
}

func (a *Application) deleteHistory(ctx context.Context, out io.Writer, c *client.Client) error {
	if a.Config.ID <= 0 {
		return apperrors.MissingInputError{Reason: "no history entry given (use --id)"}
	}
	msg, err := c.DeleteTextSummary(ctx, a.Config.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, msg)
	return nil
}
