package utils

import (
	"fmt"
	"time"

	"github.com/mtaiwo/receiptscan/gen/ent"
	receiptspb "github.com/mtaiwo/receiptscan/gen/proto/receipts/v1"
	"github.com/mtaiwo/receiptscan/internal/entity"
)

func ToPBReceipt(r *entity.Receipt) *receiptspb.Receipt {
	pb := &receiptspb.Receipt{
		Id:           r.ID.String(),
		StoreName:    r.StoreName,
		PurchaseDate: r.PurchaseDate.Format("2006-01-02"),
		DateFound:    r.DateFound,
		TotalAmount:  fmt.Sprintf("%.2f", r.TotalAmount),
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, it := range r.Items {
		pb.Items = append(pb.Items, &receiptspb.ReceiptItem{
			Id:        it.ID.String(),
			Name:      it.Name,
			Quantity:  int32(it.Quantity),
			UnitPrice: fmt.Sprintf("%.2f", it.UnitPrice),
		})
	}
	return pb
}

func ParseYMD(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	// strip time to midnight UTC to match DATE semantics
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func ToReceipt(e *ent.Receipt) *entity.Receipt {
	return &entity.Receipt{
		ID:           e.ID,
		StoreName:    e.StoreName,
		PurchaseDate: e.PurchaseDate,
		DateFound:    e.DateFound,
		TotalAmount:  e.TotalAmount,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToReceiptItem(e *ent.ReceiptItem) entity.ReceiptItem {
	return entity.ReceiptItem{
		ID:        e.ID,
		ReceiptID: e.ReceiptID,
		Name:      e.Name,
		Quantity:  e.Quantity,
		UnitPrice: e.UnitPrice,
	}
}

func ToReceiptFile(e *ent.ReceiptFile) *entity.ReceiptFile {
	return &entity.ReceiptFile{
		ID:          e.ID,
		SourcePath:  e.SourcePath,
		ContentHash: e.ContentHash,
		Filename:    e.Filename,
		FileExt:     e.FileExt,
		FileSize:    e.FileSize,
		UploadedAt:  e.UploadedAt,
	}
}

func ToExtractJob(e *ent.ExtractJob) *entity.ExtractJob {
	return &entity.ExtractJob{
		ID:            e.ID,
		FileID:        e.FileID,
		ReceiptID:     e.ReceiptID,
		Format:        e.Format,
		StartedAt:     e.StartedAt,
		FinishedAt:    e.FinishedAt,
		Status:        e.Status,
		ErrorMessage:  e.ErrorMessage,
		OCRConfidence: e.OcrConfidence,
		NeedsReview:   e.NeedsReview,
		OCRText:       e.OcrText,
		ExtractedJSON: e.ExtractedJSON,
	}
}
