package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/mtaiwo/receiptscan/internal/entity"
	"github.com/mtaiwo/receiptscan/internal/repository"
)

type fakeReceipts struct {
	receipts map[uuid.UUID]*entity.Receipt
	order    []uuid.UUID
}

func (f *fakeReceipts) ListReceipts(_ context.Context, from, to *time.Time) ([]*entity.Receipt, error) {
	var out []*entity.Receipt
	for _, id := range f.order {
		r := f.receipts[id]
		if from != nil && r.PurchaseDate.Before(*from) {
			continue
		}
		if to != nil && r.PurchaseDate.After(*to) {
			continue
		}
		out = append(out, &entity.Receipt{ID: r.ID, StoreName: r.StoreName, PurchaseDate: r.PurchaseDate, DateFound: r.DateFound, TotalAmount: r.TotalAmount})
	}
	return out, nil
}

func (f *fakeReceipts) GetReceipt(_ context.Context, id uuid.UUID) (*entity.Receipt, error) {
	r, ok := f.receipts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (f *fakeReceipts) CreateFromParse(context.Context, *repository.CreateReceiptRequest) (*entity.Receipt, error) {
	return nil, errors.New("not implemented")
}

func newFakeReceipts(recs ...*entity.Receipt) *fakeReceipts {
	f := &fakeReceipts{receipts: map[uuid.UUID]*entity.Receipt{}}
	for _, r := range recs {
		f.receipts[r.ID] = r
		f.order = append(f.order, r.ID)
	}
	return f
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExportReceiptsXLSX(t *testing.T) {
	withItems := &entity.Receipt{
		ID: uuid.New(), StoreName: "Joe's Cafe", PurchaseDate: day(2023, time.March, 12),
		DateFound: true, TotalAmount: 7.00,
	}
	withItems.Items = []entity.ReceiptItem{
		{ID: uuid.New(), ReceiptID: withItems.ID, Name: "Coffee", Quantity: 2, UnitPrice: 3.50},
		{ID: uuid.New(), ReceiptID: withItems.ID, Name: "Muffin", Quantity: 1, UnitPrice: 2.75},
	}
	noItems := &entity.Receipt{
		ID: uuid.New(), StoreName: "Corner Shop", PurchaseDate: day(2023, time.April, 1),
		DateFound: false, TotalAmount: 12.30,
	}

	svc := NewService(newFakeReceipts(withItems, noItems), slog.New(slog.NewTextHandler(io.Discard, nil)))
	data, err := svc.ExportReceiptsXLSX(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows("Receipts")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	// header + 2 item rows + 1 itemless row
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4: %v", len(rows), rows)
	}
	if rows[0][0] != "Purchase Date" || rows[0][2] != "Item" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "Joe's Cafe" || rows[1][2] != "Coffee" || rows[1][4] != "3.50" {
		t.Errorf("unexpected first item row: %v", rows[1])
	}
	if rows[3][1] != "Corner Shop" || len(rows[3]) > 2 && rows[3][2] != "" {
		t.Errorf("itemless receipt should leave item cells empty: %v", rows[3])
	}
}

func TestExportDateWindow(t *testing.T) {
	older := &entity.Receipt{ID: uuid.New(), StoreName: "Old", PurchaseDate: day(2022, time.January, 1), DateFound: true, TotalAmount: 1}
	newer := &entity.Receipt{ID: uuid.New(), StoreName: "New", PurchaseDate: day(2024, time.January, 1), DateFound: true, TotalAmount: 2}

	svc := NewService(newFakeReceipts(older, newer), slog.New(slog.NewTextHandler(io.Discard, nil)))
	from := day(2023, time.June, 1)
	data, err := svc.ExportReceiptsXLSX(context.Background(), &from, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	rows, _ := wb.GetRows("Receipts")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[1][1] != "New" {
		t.Errorf("window should keep only the newer receipt: %v", rows[1])
	}
}
