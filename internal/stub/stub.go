// Package stub is a canned stand-in for the summarization backend. It serves
// every route the client uses with deterministic payloads and lets callers
// inject per-route latency, failures and empty results. It does no inference.
package stub

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agbru/omnisum/internal/endpoint"
)

// SessionCookie names the cookie carrying the PDF session.
const SessionCookie = "omnisum_session"

// Behavior alters how a route answers.
type Behavior struct {
	// Delay is applied before answering. It is cut short when the client
	// goes away.
	Delay time.Duration
	// Status, when >= 400, makes the route answer {"error": ...} with it.
	Status int
	// Result replaces the canned inference text.
	Result string
	// Empty makes an inference route answer {"result": ""}.
	Empty bool
	// Raw, when set, is sent verbatim as text/html instead of JSON.
	Raw string
}

type historyEntry struct {
	ID            int64  `json:"id"`
	Text          string `json:"text"`
	ShortSummary  string `json:"short_summary"`
	PointsSummary string `json:"points_summary"`
	Timestamp     string `json:"timestamp"`
}

// Backend is the stub server state.
type Backend struct {
	registry *endpoint.Registry

	mu        sync.Mutex
	behaviors map[string]Behavior
	calls     map[string]int
	sessions  map[string]string
	files     map[string][]byte
	history   []historyEntry
	nextID    int64
	now       func() time.Time
}

// New returns a backend serving the inference endpoints of reg.
func New(reg *endpoint.Registry) *Backend {
	if reg == nil {
		reg = endpoint.DefaultRegistry()
	}
	return &Backend{
		registry:  reg,
		behaviors: make(map[string]Behavior),
		calls:     make(map[string]int),
		sessions:  make(map[string]string),
		files:     make(map[string][]byte),
		now:       time.Now,
	}
}

// Set configures the behavior of the route at path.
func (b *Backend) Set(path string, bh Behavior) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.behaviors[path] = bh
}

// Calls returns how many requests reached path.
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

func (b *Backend) behavior(path string) Behavior {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[path]++
	return b.behaviors[path]
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// fixedRoutes are served regardless of the registry. An inference endpoint
// declared on one of them is answered by the fixed handler.
var fixedRoutes = map[string]bool{
	"/summarize":          true,
	"/generate_caption":   true,
	"/ask_question":       true,
	"/summarize_pdf":      true,
	"/create_pdf":         true,
	"/summarize_video":    true,
	"/notes":              true,
	"/generate_summaries": true,
	"/generate_story":     true,
	"/summarize-image":    true,
}

// Handler returns the gin engine serving every backend route.
func (b *Backend) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(b.inject)

	inference := make(map[string]endpoint.Endpoint)
	for _, ep := range b.registry.All() {
		inference[ep.Path] = ep
	}
	for path, ep := range inference {
		if fixedRoutes[path] {
			continue
		}
		r.POST(path, b.infer(ep))
	}

	r.POST("/summarize", func(c *gin.Context) {
		if c.ContentType() == gin.MIMEJSON {
			b.summarizeText(c)
			return
		}
		ep, ok := inference["/summarize"]
		if !ok {
			ep = endpoint.Endpoint{Name: "Gemini", Path: "/summarize"}
		}
		b.infer(ep)(c)
	})
	r.POST("/generate_caption", b.caption)
	r.POST("/ask_question", b.askQuestion)
	r.POST("/summarize_pdf", b.summarizePDF)
	r.POST("/create_pdf", b.createPDF)
	r.GET("/download_pdf", b.downloadPDF)
	r.GET("/text_to_speech", b.textToSpeech)
	r.POST("/summarize_video", b.summarizeVideo)
	r.POST("/notes", b.notes)
	r.POST("/generate_summaries", b.generateSummaries)
	r.POST("/generate_story", b.generateStory)
	r.POST("/summarize-image", b.summarizeLive)
	r.GET("/get_text_summary_history", b.textHistory)
	r.DELETE("/delete_text_summary/:id", b.deleteTextSummary)
	return r
}

// inject applies the configured Behavior of the requested path.
func (b *Backend) inject(c *gin.Context) {
	bh := b.behavior(c.Request.URL.Path)
	if bh.Delay > 0 {
		t := time.NewTimer(bh.Delay)
		select {
		case <-t.C:
		case <-c.Request.Context().Done():
			t.Stop()
			c.Abort()
			return
		}
	}
	if bh.Raw != "" {
		status := bh.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.Data(status, "text/html; charset=utf-8", []byte(bh.Raw))
		c.Abort()
		return
	}
	if bh.Status >= 400 {
		c.AbortWithStatusJSON(bh.Status, gin.H{"error": "stub failure"})
		return
	}
	c.Set("behavior", bh)
	c.Next()
}

func behaviorOf(c *gin.Context) Behavior {
	if v, ok := c.Get("behavior"); ok {
		if bh, ok := v.(Behavior); ok {
			return bh
		}
	}
	return Behavior{}
}

func (b *Backend) infer(ep endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile(ep.FormField())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		bh := behaviorOf(c)
		switch {
		case bh.Empty:
			c.JSON(http.StatusOK, gin.H{"result": ""})
		case bh.Result != "":
			c.JSON(http.StatusOK, gin.H{"result": bh.Result})
		default:
			c.JSON(http.StatusOK, gin.H{"result": fmt.Sprintf("%s summary of %s (%d bytes)", ep.Name, fh.Filename, fh.Size)})
		}
	}
}

func (b *Backend) caption(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	lines := []string{
		"Choose the caption that fits best:",
		"",
		"A quiet moment captured in " + fh.Filename,
		"Light and shadow, frozen in time",
		"  ",
		"Every picture tells a story",
	}
	c.JSON(http.StatusOK, gin.H{"result": strings.Join(lines, "\n")})
}

func (b *Backend) askQuestion(c *gin.Context) {
	if c.ContentType() == gin.MIMEJSON {
		var req struct {
			Question string `json:"question"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No question provided."})
			return
		}
		text, ok := b.sessionText(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Session expired. Please upload your PDF again."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"answer": fmt.Sprintf("According to the document (%d characters): %s", len(text), req.Question)})
		return
	}
	fh, err := c.FormFile("file")
	question := c.PostForm("question")
	if err != nil || strings.TrimSpace(question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file or question provided"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": fmt.Sprintf("Looking at %s: %s", fh.Filename, question)})
}

func (b *Backend) summarizeText(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}
	words := strings.Fields(req.Text)
	short := "Short: " + strings.Join(words[:min(len(words), 8)], " ")
	var points strings.Builder
	for i, w := range words[:min(len(words), 3)] {
		if i > 0 {
			points.WriteString("\n")
		}
		points.WriteString("- " + w)
	}

	b.mu.Lock()
	b.nextID++
	b.history = append(b.history, historyEntry{
		ID:            b.nextID,
		Text:          req.Text,
		ShortSummary:  short,
		PointsSummary: points.String(),
		Timestamp:     b.now().Format("2006-01-02 15:04:05"),
	})
	b.mu.Unlock()

	switch strings.ToLower(req.Type) {
	case "", "short":
		c.JSON(http.StatusOK, gin.H{"summary": short})
	case "points":
		c.JSON(http.StatusOK, gin.H{"summary": points.String()})
	default:
		c.JSON(http.StatusOK, gin.H{"short_summary": short, "points_summary": points.String()})
	}
}

func (b *Backend) sessionText(c *gin.Context) (string, bool) {
	id, err := c.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	text, ok := b.sessions[id]
	return text, ok
}

func (b *Backend) summarizePDF(c *gin.Context) {
	fh, err := c.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
	}
	text := fmt.Sprintf("Extracted text of %s.", fh.Filename)
	b.mu.Lock()
	b.sessions[id] = text
	b.mu.Unlock()
	c.SetCookie(SessionCookie, id, 3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"summary":        "Summary of " + fh.Filename,
		"text_available": true,
		"session_id":     id,
	})
}

func (b *Backend) createPDF(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided."})
		return
	}
	b.mu.Lock()
	name := fmt.Sprintf("summary_%d.pdf", len(b.files)+1)
	b.files[name] = []byte("%PDF-1.4\n" + req.Text + "\n%%EOF\n")
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"pdf_url": "/download_pdf?file=" + name})
}

func (b *Backend) downloadPDF(c *gin.Context) {
	b.mu.Lock()
	data, ok := b.files[c.Query("file")]
	b.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.Data(http.StatusOK, "application/pdf", data)
}

func (b *Backend) textToSpeech(c *gin.Context) {
	text, ok := b.sessionText(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session expired. Please upload your PDF again."})
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", []byte("ID3"+text))
}

// Keyframe is the JPEG start-of-image marker the stub returns as keyframes.
var Keyframe = []byte{0xFF, 0xD8, 0xFF, 0xE0}

func (b *Backend) summarizeVideo(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	frame := base64.StdEncoding.EncodeToString(Keyframe)
	c.JSON(http.StatusOK, gin.H{
		"summary":   "Video summary of " + fh.Filename,
		"keyframes": []string{frame, frame},
	})
}

func (b *Backend) notes(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": "1. Introduction to " + fh.Filename + "\n2. Key points\n3. Conclusion"})
}

func (b *Backend) generateSummaries(c *gin.Context) {
	if _, err := c.FormFile("image1"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images uploaded"})
		return
	}
	summaries := make([]string, 0, 4)
	for i := 1; i <= 4; i++ {
		fh, err := c.FormFile(fmt.Sprintf("image%d", i))
		if err != nil {
			summaries = append(summaries, fmt.Sprintf("Image %d: No image uploaded.", i))
			continue
		}
		summaries = append(summaries, fmt.Sprintf("Image %d shows %s", i, fh.Filename))
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries})
}

func (b *Backend) generateStory(c *gin.Context) {
	var req struct {
		Summaries []string `json:"summaries"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Summaries) < 4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid summaries data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"story": "Once upon a time. " + strings.Join(req.Summaries, ". Then ") + ". The end."})
}

func (b *Backend) summarizeLive(c *gin.Context) {
	var req struct {
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, payload, ok := strings.Cut(req.Image, ",")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be a data URL"})
		return
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": fmt.Sprintf("Live frame of %d bytes", len(data))})
}

func (b *Backend) textHistory(c *gin.Context) {
	b.mu.Lock()
	entries := make([]historyEntry, len(b.history))
	copy(entries, b.history)
	b.mu.Unlock()
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	c.JSON(http.StatusOK, entries)
}

func (b *Backend) deleteTextSummary(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.history {
		if e.ID == id {
			b.history = append(b.history[:i], b.history[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no summary with id %d", id)})
}
