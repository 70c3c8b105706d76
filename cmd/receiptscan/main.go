package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mtaiwo/receiptscan/internal/common"
	"github.com/mtaiwo/receiptscan/internal/extract"
	"github.com/mtaiwo/receiptscan/internal/ingest"
	"github.com/mtaiwo/receiptscan/internal/ocr"
	"github.com/mtaiwo/receiptscan/internal/parse"
	pipeline "github.com/mtaiwo/receiptscan/internal/pipeline"
	repo "github.com/mtaiwo/receiptscan/internal/repository"
)

// receiptscan runs the OCR + parse pipeline over a single file and prints the
// structured receipt as JSON. With -db the result is also persisted to an
// embedded sqlite database.
func main() {
	dbPath := flag.String("db", "", "sqlite database path; empty means parse-only")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: receiptscan [-db receipts.db] [-v] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := common.LoadConfig()
	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:           cfg.OCR.Tesseract,
		Pdftotext:           cfg.OCR.Pdftotext,
		Pdftoppm:            cfg.OCR.Pdftoppm,
		TesseractLang:       cfg.OCR.Language,
		DPI:                 cfg.OCR.DPI,
		MaxPages:            cfg.OCR.MaxPages,
		HeicConverter:       cfg.OCR.HeicConverter,
		TessdataDir:         cfg.OCR.TessdataDir,
		EnableTSVConfidence: cfg.OCR.TSVConfidence,
	}, logger)

	if *dbPath == "" {
		runStateless(ctx, extractor, path, logger)
		return
	}
	runPersisted(ctx, cfg, extractor, *dbPath, path, logger)
}

func runStateless(ctx context.Context, extractor *ocr.Extractor, path string, logger *slog.Logger) {
	res, err := extractor.Extract(ctx, path)
	if err != nil {
		logger.Error("text extraction failed", "path", path, "error", err)
		os.Exit(1)
	}
	printPayload(parse.New().Parse(res.Text))
}

func runPersisted(ctx context.Context, cfg *common.Config, extractor *ocr.Extractor, dbPath, path string, logger *slog.Logger) {
	entc, err := repo.OpenSQLite(ctx, dbPath, logger)
	if err != nil {
		logger.Error("open sqlite", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := entc.Close(); cerr != nil {
			logger.Error("close ent client", "error", cerr)
		}
	}()

	filesRepo := repo.NewReceiptFileRepository(entc, logger)
	jobsRepo := repo.NewExtractJobRepository(entc, logger)
	receiptsRepo := repo.NewReceiptRepository(entc, logger)

	ocrStage := pipeline.NewOCRStage(filesRepo, jobsRepo, extract.NewOCRAdapter(extractor), logger)
	parseStage := pipeline.NewParseStage(logger, pipeline.Config{
		MinConfidence: cfg.Parse.MinConfidence,
	}, jobsRepo, filesRepo, receiptsRepo, parse.New())
	proc := pipeline.NewProcessor(logger, ocrStage, parseStage)

	ingestor := ingest.NewFSIngestor(filesRepo, logger)
	r, err := ingestor.IngestPath(ctx, path)
	if err != nil {
		logger.Error("ingest failed", "path", path, "error", err)
		os.Exit(1)
	}
	if r.Deduplicated {
		fmt.Fprintln(os.Stderr, "already ingested; skipping")
		return
	}

	fileID, err := uuid.Parse(r.FileID)
	if err != nil {
		logger.Error("bad file id", "file_id", r.FileID, "error", err)
		os.Exit(1)
	}

	start := time.Now()
	jobID, err := proc.ProcessFile(ctx, fileID)
	if err != nil {
		logger.Error("processing failed", "file_id", fileID, "job_id", jobID, "error", err)
		os.Exit(1)
	}
	logger.Debug("processing finished", "job_id", jobID, "took", time.Since(start))

	job, err := jobsRepo.GetByID(ctx, jobID)
	if err != nil {
		logger.Error("load job", "job_id", jobID, "error", err)
		os.Exit(1)
	}
	fmt.Println(string(job.ExtractedJSON))
}

func printPayload(rec parse.Receipt) {
	out, err := json.MarshalIndent(rec.Payload(), "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
