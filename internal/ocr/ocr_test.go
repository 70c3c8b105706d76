package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubRunner replays canned outputs per command name.
type stubRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name+" "+strings.Join(args, " "))
	if err, ok := s.errs[name]; ok {
		return nil, []byte("boom"), err
	}
	return []byte(s.outputs[name]), nil, nil
}

func newTestExtractor(r Runner) *Extractor {
	e := NewExtractor(Config{}, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	e.runner = r
	return e
}

func TestExtractTxtPassthrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "receipt.txt")
	if err := os.WriteFile(path, []byte("Joe's Cafe\nTotal 7.00"), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := newTestExtractor(&stubRunner{}).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != "txt" || res.Confidence != 1.0 {
		t.Errorf("got method %q confidence %v", res.Method, res.Confidence)
	}
	if !strings.Contains(res.Text, "Joe's Cafe") {
		t.Errorf("text not passed through: %q", res.Text)
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	_, err := newTestExtractor(&stubRunner{}).Extract(context.Background(), "notes.docx")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestExtractImageRunsTesseract(t *testing.T) {
	r := &stubRunner{outputs: map[string]string{
		"tesseract": "Joe's Cafe\n12/03/2023\nTotal 7.00\n",
	}}
	res, err := newTestExtractor(r).Extract(context.Background(), "receipt.jpg")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != "image-ocr" || res.Pages != 1 {
		t.Errorf("got method %q pages %d", res.Method, res.Pages)
	}
	if res.Confidence <= 0 {
		t.Errorf("confidence not computed: %v", res.Confidence)
	}
	if len(r.calls) == 0 || !strings.HasPrefix(r.calls[0], "tesseract ") {
		t.Errorf("tesseract not invoked: %v", r.calls)
	}
}

func TestExtractImageFailureIsError(t *testing.T) {
	r := &stubRunner{errs: map[string]error{"tesseract": fmt.Errorf("exit 1")}}
	_, err := newTestExtractor(r).Extract(context.Background(), "receipt.png")
	if err == nil {
		t.Fatal("expected OCR failure to surface as an error")
	}
}

func TestExtractPDFPrefersTextLayer(t *testing.T) {
	r := &stubRunner{outputs: map[string]string{
		"pdftotext": "Joe's Cafe\n12/03/2023\nCoffee 2 3.50\nTotal 7.00\n",
	}}
	res, err := newTestExtractor(r).Extract(context.Background(), "receipt.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != "pdf-text" {
		t.Errorf("got method %q, want pdf-text", res.Method)
	}
	if res.Confidence < 0.9 {
		t.Errorf("text layer confidence too low: %v", res.Confidence)
	}
	for _, c := range r.calls {
		if strings.HasPrefix(c, "pdftoppm") {
			t.Errorf("rasterization should not run when a text layer exists")
		}
	}
}

func TestHeuristicConfidence(t *testing.T) {
	rich := heuristicConfidence("Joe's Cafe 12/03/2023 Coffee $3.50 Total 7.00 " + strings.Repeat("x", 120))
	poor := heuristicConfidence("??")
	if rich <= poor {
		t.Errorf("rich text (%v) should outscore noise (%v)", rich, poor)
	}
	if poor != 0.2 {
		t.Errorf("base confidence = %v, want 0.2", poor)
	}
}

func TestTruncateCapsLoggedOutput(t *testing.T) {
	if got := truncate("short", 64); got != "short" {
		t.Errorf("short string altered: %q", got)
	}
	long := strings.Repeat("x", 100)
	got := truncate(long, 8)
	want := strings.Repeat("x", 8) + "...(truncated)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
