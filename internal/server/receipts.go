package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	receiptspb "github.com/mtaiwo/receiptscan/gen/proto/receipts/v1"
	"github.com/mtaiwo/receiptscan/internal/common"
	"github.com/mtaiwo/receiptscan/internal/export"
	"github.com/mtaiwo/receiptscan/internal/repository"
	"github.com/mtaiwo/receiptscan/internal/utils"
)

type ReceiptService struct {
	receiptspb.UnimplementedReceiptsServiceServer
	receiptRepo repository.ReceiptRepository
	exporter    *export.Service
	logger      *slog.Logger
}

func NewReceiptService(receiptRepo repository.ReceiptRepository, exporter *export.Service, logger *slog.Logger) *ReceiptService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiptService{
		receiptRepo: receiptRepo,
		exporter:    exporter,
		logger:      logger,
	}
}

func (s *ReceiptService) ListReceipts(ctx context.Context, req *receiptspb.ListReceiptsRequest) (*receiptspb.ListReceiptsResponse, error) {
	fromDate, toDate, err := parseDateWindow(req.GetFromDate(), req.GetToDate())
	if err != nil {
		s.logger.Error("invalid date window", "error", err)
		return nil, common.InvalidArgumentErrorf("%v", err)
	}

	recs, err := s.receiptRepo.ListReceipts(ctx, fromDate, toDate)
	if err != nil {
		s.logger.Error("failed to list receipts", "error", err)
		return nil, common.InternalErrorf("list receipts: %v", err)
	}
	s.logger.Info("receipts listed successfully", "count", len(recs))

	out := make([]*receiptspb.Receipt, 0, len(recs))
	for _, r := range recs {
		out = append(out, utils.ToPBReceipt(r))
	}
	return &receiptspb.ListReceiptsResponse{Receipts: out}, nil
}

func (s *ReceiptService) GetReceipt(ctx context.Context, req *receiptspb.GetReceiptRequest) (*receiptspb.GetReceiptResponse, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.GetId()))
	if err != nil {
		return nil, common.InvalidArgumentError("id must be a UUID")
	}

	rec, err := s.receiptRepo.GetReceipt(ctx, id)
	if err != nil {
		s.logger.Error("failed to get receipt", "id", id, "error", err)
		return nil, common.NotFoundErrorf("receipt %s: %v", id, err)
	}
	return &receiptspb.GetReceiptResponse{Receipt: utils.ToPBReceipt(rec)}, nil
}

func (s *ReceiptService) ExportReceipts(ctx context.Context, req *receiptspb.ExportReceiptsRequest) (*receiptspb.ExportReceiptsResponse, error) {
	fromDate, toDate, err := parseDateWindow(req.GetFromDate(), req.GetToDate())
	if err != nil {
		return nil, common.InvalidArgumentErrorf("%v", err)
	}

	data, err := s.exporter.ExportReceiptsXLSX(ctx, fromDate, toDate)
	if err != nil {
		s.logger.Error("export failed", "error", err)
		return nil, common.InternalErrorf("export: %v", err)
	}

	return &receiptspb.ExportReceiptsResponse{
		Xlsx:     data,
		Filename: fmt.Sprintf("receipts-%s.xlsx", time.Now().UTC().Format("20060102-150405")),
	}, nil
}

func parseDateWindow(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var fromDate, toDate *time.Time
	if fd := strings.TrimSpace(fromStr); fd != "" {
		from, err := utils.ParseYMD(fd)
		if err != nil {
			return nil, nil, fmt.Errorf("from_date invalid (YYYY-MM-DD): %w", err)
		}
		fromDate = &from
	}
	if td := strings.TrimSpace(toStr); td != "" {
		to, err := utils.ParseYMD(td)
		if err != nil {
			return nil, nil, fmt.Errorf("to_date invalid (YYYY-MM-DD): %w", err)
		}
		toDate = &to
	}
	if fromDate != nil && toDate != nil && toDate.Before(*fromDate) {
		return nil, nil, fmt.Errorf("to_date precedes from_date")
	}
	return fromDate, toDate, nil
}
