package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	v1 "github.com/mtaiwo/receiptscan/gen/proto/receipts/v1"
	"github.com/mtaiwo/receiptscan/internal/async"
	"github.com/mtaiwo/receiptscan/internal/common"
	"github.com/mtaiwo/receiptscan/internal/ingest"
)

type IngestionService struct {
	v1.UnimplementedIngestionServiceServer
	ingestor ingest.Ingestor
	queue    async.Queue
	logger   *slog.Logger
}

func NewIngestionService(ing ingest.Ingestor, queue async.Queue, logger *slog.Logger) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionService{
		ingestor: ing,
		queue:    queue,
		logger:   logger,
	}
}

// IngestFile registers one file and queues it for OCR + parse.
func (s *IngestionService) IngestFile(ctx context.Context, req *v1.IngestFileRequest) (*v1.IngestFileResponse, error) {
	path := strings.TrimSpace(req.GetPath())
	if path == "" {
		s.logger.Error("ingest request missing path")
		return nil, common.InvalidArgumentError("path is required")
	}

	s.logger.Info("starting file ingest", "path", path)
	r, err := s.ingestor.IngestPath(ctx, path)
	if err != nil {
		return nil, common.InvalidArgumentErrorf("ingest: %v", err)
	}
	s.logger.Info("file ingest succeeded", "file_id", r.FileID, "deduplicated", r.Deduplicated)

	if !r.Deduplicated {
		s.enqueue(ctx, r.FileID)
	}

	return &v1.IngestFileResponse{
		FileId:       r.FileID,
		Deduplicated: r.Deduplicated,
		ContentHash:  r.HashHex,
	}, nil
}

func (s *IngestionService) IngestDirectory(ctx context.Context, req *v1.IngestDirectoryRequest) (*v1.IngestDirectoryResponse, error) {
	root := strings.TrimSpace(req.GetRootPath())
	if root == "" {
		s.logger.Error("ingest directory request missing root_path")
		return nil, common.InvalidArgumentError("root_path is required")
	}

	s.logger.Info("starting directory ingest", "root", root, "skip_hidden", req.GetSkipHidden())
	results, stats, err := s.ingestor.IngestDirectory(ctx, root, req.GetSkipHidden())
	if err != nil {
		return nil, common.InvalidArgumentErrorf("ingest directory: %v", err)
	}
	s.logger.Info("directory ingest completed",
		"scanned", stats.Scanned, "matched", stats.Matched,
		"succeeded", stats.Succeeded, "deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)

	resp := &v1.IngestDirectoryResponse{
		Scanned:      stats.Scanned,
		Matched:      stats.Matched,
		Succeeded:    stats.Succeeded,
		Deduplicated: stats.Deduplicated,
		Failed:       stats.Failed,
	}
	for _, r := range results {
		if r.Err != "" {
			continue
		}
		resp.Files = append(resp.Files, &v1.IngestFileResponse{
			FileId:       r.FileID,
			Deduplicated: r.Deduplicated,
			ContentHash:  r.HashHex,
		})
		if !r.Deduplicated {
			s.enqueue(ctx, r.FileID)
		}
	}
	return resp, nil
}

func (s *IngestionService) enqueue(ctx context.Context, fileID string) {
	id, err := uuid.Parse(fileID)
	if err != nil {
		s.logger.Error("bad file id from ingest", "file_id", fileID, "error", err)
		return
	}
	if err := s.queue.Enqueue(ctx, async.Job{FileID: id, SubmittedAt: time.Now()}); err != nil {
		s.logger.Error("enqueue failed", "file_id", fileID, "error", err)
	}
}
