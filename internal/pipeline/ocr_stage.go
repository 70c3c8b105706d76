package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mtaiwo/receiptscan/constants"
	"github.com/mtaiwo/receiptscan/internal/extract"
	"github.com/mtaiwo/receiptscan/internal/repository"
)

type OCRStage struct {
	FilesRepo     repository.ReceiptFileRepository
	JobsRepo      repository.ExtractJobRepository
	TextExtractor extract.TextExtractor
	Logger        *slog.Logger
}

func NewOCRStage(files repository.ReceiptFileRepository, jobs repository.ExtractJobRepository, tx extract.TextExtractor, logger *slog.Logger) *OCRStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRStage{FilesRepo: files, JobsRepo: jobs, TextExtractor: tx, Logger: logger}
}

// Run starts an extract_job, runs text extraction, and persists the OCR text.
// Returns the job ID and the extraction summary. The parse stage is NOT called.
func (p *OCRStage) Run(ctx context.Context, fileID uuid.UUID) (uuid.UUID, extract.TextExtractionResult, error) {
	// Lookup the file
	row, err := p.FilesRepo.GetByID(ctx, fileID)
	if err != nil {
		return uuid.Nil, extract.TextExtractionResult{}, fmt.Errorf("get file: %w", err)
	}

	format, ok := constants.MapExtToFormat(row.FileExt)
	if !ok {
		return uuid.Nil, extract.TextExtractionResult{}, fmt.Errorf("unsupported format: %s", row.FileExt)
	}

	// Start job in RUNNING
	job, err := p.JobsRepo.Start(ctx, row.ID, string(format))
	if err != nil {
		return uuid.Nil, extract.TextExtractionResult{}, err
	}

	res, err := p.TextExtractor.Extract(ctx, row.SourcePath)
	if err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, res, err
	}

	// Persist OCR result (mark OCR_OK)
	if err := p.JobsRepo.FinishOCRSuccess(ctx, job.ID, res.Text, res.Confidence); err != nil {
		return job.ID, res, err
	}

	return job.ID, res, nil
}
