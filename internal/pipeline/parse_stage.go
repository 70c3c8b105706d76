package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mtaiwo/receiptscan/constants"
	"github.com/mtaiwo/receiptscan/internal/parse"
	"github.com/mtaiwo/receiptscan/internal/repository"
)

// Config holds thresholds and behavior flags for the parse stage.
type Config struct {
	MinConfidence float32 // default 0.60
}

type ParseStage struct {
	Logger       *slog.Logger
	Cfg          Config
	JobsRepo     repository.ExtractJobRepository
	FilesRepo    repository.ReceiptFileRepository
	ReceiptsRepo repository.ReceiptRepository
	Parser       *parse.Parser
}

func NewParseStage(
	logger *slog.Logger,
	cfg Config,
	jobs repository.ExtractJobRepository,
	files repository.ReceiptFileRepository,
	recs repository.ReceiptRepository,
	parser *parse.Parser,
) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.60
	}
	if parser == nil {
		parser = parse.New()
	}
	return &ParseStage{
		Logger:       logger,
		Cfg:          cfg,
		JobsRepo:     jobs,
		FilesRepo:    files,
		ReceiptsRepo: recs,
		Parser:       parser,
	}
}

// Run executes the parse stage for an existing OCR job.
// Preconditions: job is OCR_OK with non-empty ocr_text and a valid file link.
// Effects: writes extracted_json and needs_review, creates the receipts row
// and links job -> receipt.
func (p *ParseStage) Run(ctx context.Context, jobID uuid.UUID) (uuid.UUID, error) {
	job, err := p.JobsRepo.GetByID(ctx, jobID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load job: %w", err)
	}
	if job.Status != string(constants.JobOCROK) || job.OCRText == nil {
		return uuid.Nil, fmt.Errorf("job not ready for parse: status=%s ocr_text_empty=%t", job.Status, job.OCRText == nil)
	}
	file, err := p.FilesRepo.GetByID(ctx, job.FileID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load file: %w", err)
	}

	p.Logger.Info("parse.start", "job_id", job.ID, "file_id", file.ID, "ocr_bytes", len(*job.OCRText))

	rec := p.Parser.Parse(*job.OCRText)
	payload, err := json.Marshal(rec.Payload())
	if err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return uuid.Nil, fmt.Errorf("marshal payload: %w", err)
	}
	if err := parse.ValidatePayload(payload); err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return uuid.Nil, fmt.Errorf("validate payload: %w", err)
	}

	needsReview := p.needsReview(rec, job.OCRConfidence)

	saved, err := p.ReceiptsRepo.CreateFromParse(ctx, &repository.CreateReceiptRequest{
		Parsed:       rec,
		FallbackDate: file.UploadedAt,
	})
	if err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return uuid.Nil, fmt.Errorf("create receipt: %w", err)
	}

	if err := p.JobsRepo.FinishParseSuccess(ctx, job.ID, saved.ID, payload, needsReview); err != nil {
		return saved.ID, err
	}

	p.Logger.Info("parse.ok",
		"job_id", job.ID, "receipt_id", saved.ID,
		"store", rec.StoreName, "date_found", rec.PurchaseDate != nil,
		"total", rec.TotalAmount, "items", len(rec.Items),
		"needs_review", needsReview,
	)
	return saved.ID, nil
}

// needsReview flags results a human should look at: the extractor fell back
// to defaults somewhere, or OCR itself was shaky.
func (p *ParseStage) needsReview(rec parse.Receipt, ocrConf *float32) bool {
	if rec.StoreName == parse.UnknownStore {
		return true
	}
	if rec.PurchaseDate == nil {
		return true
	}
	if rec.TotalAmount == 0 {
		return true
	}
	if ocrConf != nil && *ocrConf > 0 && *ocrConf < p.Cfg.MinConfidence {
		return true
	}
	return false
}
