package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mtaiwo/receiptscan/internal/entity"
)

type memFiles struct {
	byHash map[string]*entity.ReceiptFile
}

func (m *memFiles) GetByID(context.Context, uuid.UUID) (*entity.ReceiptFile, error) {
	return nil, os.ErrNotExist
}

func (m *memFiles) GetByHash(_ context.Context, hash []byte) (*entity.ReceiptFile, error) {
	if row, ok := m.byHash[string(hash)]; ok {
		return row, nil
	}
	return nil, os.ErrNotExist
}

func (m *memFiles) Create(_ context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ReceiptFile, error) {
	row := &entity.ReceiptFile{
		ID: uuid.New(), SourcePath: sourcePath, Filename: filename,
		FileExt: ext, FileSize: size, ContentHash: hash, UploadedAt: uploadedAt,
	}
	m.byHash[string(hash)] = row
	return row, nil
}

func (m *memFiles) UpsertByHash(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ReceiptFile, bool, error) {
	if row, ok := m.byHash[string(hash)]; ok {
		return row, true, nil
	}
	row, err := m.Create(ctx, sourcePath, filename, ext, size, hash, uploadedAt)
	return row, false, err
}

func newTestIngestor() (*FSIngestor, *memFiles) {
	files := &memFiles{byHash: map[string]*entity.ReceiptFile{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFSIngestor(files, logger), files
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestPathDedupsByContent(t *testing.T) {
	ing, _ := newTestIngestor()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "Joe's Cafe\nTotal 7.00")
	b := writeFile(t, dir, "b.txt", "Joe's Cafe\nTotal 7.00") // same bytes, new name

	r1, err := ing.IngestPath(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	if r1.Deduplicated {
		t.Fatal("first ingest must not dedup")
	}

	r2, err := ing.IngestPath(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	if !r2.Deduplicated || r2.FileID != r1.FileID {
		t.Fatalf("identical content should dedup to the same file: %+v vs %+v", r1, r2)
	}
}

func TestIngestPathRejectsUnsupportedExtension(t *testing.T) {
	ing, _ := newTestIngestor()
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.docx", "not a receipt")

	if _, err := ing.IngestPath(context.Background(), path); err == nil {
		t.Fatal("expected unsupported extension error")
	}
}

func TestIngestDirectory(t *testing.T) {
	ing, _ := newTestIngestor()
	dir := t.TempDir()
	writeFile(t, dir, "one.txt", "Store A\nTotal 1.00")
	writeFile(t, dir, "two.txt", "Store B\nTotal 2.00")
	writeFile(t, dir, "skip.docx", "ignored")
	writeFile(t, dir, ".hidden.txt", "ignored")

	results, stats, err := ing.IngestDirectory(context.Background(), dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Matched != 2 || stats.Succeeded != 2 || stats.Failed != 0 {
		t.Fatalf("stats = %+v, want 2 matched/succeeded", stats)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
}

func TestAllowedExt(t *testing.T) {
	for _, ext := range []string{"pdf", "jpg", "jpeg", "png", "heic", "txt", ".PDF"} {
		if !AllowedExt(ext) {
			t.Errorf("AllowedExt(%q) = false, want true", ext)
		}
	}
	for _, ext := range []string{"docx", "exe", ""} {
		if AllowedExt(ext) {
			t.Errorf("AllowedExt(%q) = true, want false", ext)
		}
	}
}

func TestIsHidden(t *testing.T) {
	if !IsHidden("/a/b/.git") || IsHidden("/a/b/receipt.pdf") {
		t.Error("IsHidden misclassified a path")
	}
}
