package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mtaiwo/receiptscan/gen/ent"
	entreceipt "github.com/mtaiwo/receiptscan/gen/ent/receipt"
	entitem "github.com/mtaiwo/receiptscan/gen/ent/receiptitem"
	"github.com/mtaiwo/receiptscan/internal/entity"
	"github.com/mtaiwo/receiptscan/internal/parse"
	"github.com/mtaiwo/receiptscan/internal/utils"
)

// CreateReceiptRequest wraps parameters for persisting one parsed receipt.
type CreateReceiptRequest struct {
	Parsed parse.Receipt
	// FallbackDate substitutes the purchase date when the parser found none;
	// typically the file's upload time.
	FallbackDate time.Time
}

type ReceiptRepository interface {
	ListReceipts(ctx context.Context, fromDate, toDate *time.Time) ([]*entity.Receipt, error)
	GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	CreateFromParse(ctx context.Context, request *CreateReceiptRequest) (*entity.Receipt, error)
}

type receiptRepository struct {
	client *ent.Client
	logger *slog.Logger
}

func NewReceiptRepository(client *ent.Client, logger *slog.Logger) ReceiptRepository {
	return &receiptRepository{
		client: client,
		logger: logger,
	}
}

func (r *receiptRepository) ListReceipts(ctx context.Context, fromDate, toDate *time.Time) ([]*entity.Receipt, error) {
	q := r.client.Receipt.Query()
	if fromDate != nil {
		q = q.Where(entreceipt.PurchaseDateGTE(*fromDate))
	}
	if toDate != nil {
		q = q.Where(entreceipt.PurchaseDateLTE(*toDate))
	}
	recs, err := q.Order(entreceipt.ByPurchaseDate()).All(ctx)
	if err != nil {
		r.logger.Error("failed to list receipts", "error", err)
		return nil, err
	}

	result := make([]*entity.Receipt, len(recs))
	for i, rec := range recs {
		result[i] = utils.ToReceipt(rec)
	}
	return result, nil
}

// GetReceipt loads one receipt together with its line items.
func (r *receiptRepository) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	rec, err := r.client.Receipt.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := r.client.ReceiptItem.Query().
		Where(entitem.ReceiptID(id)).
		All(ctx)
	if err != nil {
		return nil, err
	}
	out := utils.ToReceipt(rec)
	for _, row := range rows {
		out.Items = append(out.Items, utils.ToReceiptItem(row))
	}
	return out, nil
}

// CreateFromParse persists a parsed receipt and its items in one transaction.
func (r *receiptRepository) CreateFromParse(ctx context.Context, request *CreateReceiptRequest) (*entity.Receipt, error) {
	p := request.Parsed

	purchaseDate := request.FallbackDate
	dateFound := false
	if p.PurchaseDate != nil {
		purchaseDate = *p.PurchaseDate
		dateFound = true
	}
	purchaseDate = time.Date(purchaseDate.Year(), purchaseDate.Month(), purchaseDate.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := r.client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}

	rec, err := tx.Receipt.Create().
		SetStoreName(p.StoreName).
		SetPurchaseDate(purchaseDate).
		SetDateFound(dateFound).
		SetTotalAmount(p.TotalAmount).
		Save(ctx)
	if err != nil {
		_ = tx.Rollback()
		r.logger.Error("failed to create receipt", "store_name", p.StoreName, "error", err)
		return nil, err
	}

	out := utils.ToReceipt(rec)
	for _, it := range p.Items {
		row, err := tx.ReceiptItem.Create().
			SetReceiptID(rec.ID).
			SetName(it.Name).
			SetQuantity(it.Quantity).
			SetUnitPrice(it.UnitPrice).
			Save(ctx)
		if err != nil {
			_ = tx.Rollback()
			r.logger.Error("failed to create receipt item", "receipt_id", rec.ID, "name", it.Name, "error", err)
			return nil, err
		}
		out.Items = append(out.Items, utils.ToReceiptItem(row))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}
