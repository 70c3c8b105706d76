package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	v1 "github.com/mtaiwo/receiptscan/gen/proto/receipts/v1"
	"github.com/mtaiwo/receiptscan/internal/async"
	"github.com/mtaiwo/receiptscan/internal/common"
	"github.com/mtaiwo/receiptscan/internal/export"
	"github.com/mtaiwo/receiptscan/internal/extract"
	"github.com/mtaiwo/receiptscan/internal/ingest"
	"github.com/mtaiwo/receiptscan/internal/ocr"
	"github.com/mtaiwo/receiptscan/internal/parse"
	pipeline "github.com/mtaiwo/receiptscan/internal/pipeline"
	repo "github.com/mtaiwo/receiptscan/internal/repository"
	svc "github.com/mtaiwo/receiptscan/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entc, pool, err := repo.Open(ctx, repo.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(entc, pool, logger)

	if err := repo.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer()

	receiptsRepo := repo.NewReceiptRepository(entc, logger)
	filesRepo := repo.NewReceiptFileRepository(entc, logger)
	jobsRepo := repo.NewExtractJobRepository(entc, logger)

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
	ocrStage := pipeline.NewOCRStage(filesRepo, jobsRepo, extract.NewOCRAdapter(extractor), logger)
	parseStage := pipeline.NewParseStage(logger, pipeline.Config{
		MinConfidence: cfg.Parse.MinConfidence,
	}, jobsRepo, filesRepo, receiptsRepo, parse.New())
	processor := pipeline.NewProcessor(logger, ocrStage, parseStage)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Ingest.Workers),
		async.WithQueueSize(cfg.Ingest.QueueSize),
		async.WithProcessTimeout(cfg.Ingest.ProcessTimeout),
	)

	ingestor := ingest.NewFSIngestor(filesRepo, logger)

	exporter := export.NewService(receiptsRepo, logger)
	v1.RegisterReceiptsServiceServer(grpcServer, svc.NewReceiptService(receiptsRepo, exporter, logger))
	v1.RegisterIngestionServiceServer(grpcServer, svc.NewIngestionService(ingestor, queue, logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	// Optional drop-folder mode: new files under the watch roots flow through
	// the same ingest + queue path as RPC uploads.
	if len(cfg.Ingest.WatchRoots) > 0 {
		startWatch(ctx, cfg, ingestor, queue, logger)
	}

	logger.Info("receiptscand listening", "addr", cfg.Server.GRPCAddr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	queue.Shutdown(context.Background())
	grpcServer.GracefulStop()
}

func startWatch(ctx context.Context, cfg *common.Config, ingestor *ingest.FSIngestor, queue async.Queue, logger *slog.Logger) {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       cfg.Ingest.WatchRoots,
		InitialScan: true,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "roots", cfg.Ingest.WatchRoots, "error", err)
		os.Exit(1)
	}
	logger.Info("watching for receipts", "roots", cfg.Ingest.WatchRoots)

	go func() {
		for path := range events {
			r, err := ingestor.IngestPath(ctx, path)
			if err != nil {
				logger.Error("watch ingest failed", "path", path, "error", err)
				continue
			}
			if r.Deduplicated {
				continue
			}
			if id, perr := uuid.Parse(r.FileID); perr == nil {
				_ = queue.Enqueue(ctx, async.Job{FileID: id, SubmittedAt: time.Now()})
			}
		}
	}()
	go func() {
		for err := range errs {
			logger.Error("watcher error", "error", err)
		}
	}()
}
