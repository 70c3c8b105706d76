package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mtaiwo/receiptscan/gen/ent"
	entfile "github.com/mtaiwo/receiptscan/gen/ent/receiptfile"
	"github.com/mtaiwo/receiptscan/internal/entity"
	"github.com/mtaiwo/receiptscan/internal/utils"
)

type ReceiptFileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ReceiptFile, error)
	GetByHash(ctx context.Context, hash []byte) (*entity.ReceiptFile, error)
	Create(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ReceiptFile, error)
	UpsertByHash(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ReceiptFile, bool, error)
}

type receiptFileRepo struct {
	ent    *ent.Client
	logger *slog.Logger
}

func NewReceiptFileRepository(entc *ent.Client, logger *slog.Logger) ReceiptFileRepository {
	return &receiptFileRepo{
		ent:    entc,
		logger: logger,
	}
}

func (r *receiptFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ReceiptFile, error) {
	row, err := r.ent.ReceiptFile.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return utils.ToReceiptFile(row), nil
}

func (r *receiptFileRepo) GetByHash(ctx context.Context, hash []byte) (*entity.ReceiptFile, error) {
	row, err := r.ent.ReceiptFile.Query().
		Where(entfile.ContentHash(hash)).
		Only(ctx)
	if err != nil {
		return nil, err
	}
	return utils.ToReceiptFile(row), nil
}

func (r *receiptFileRepo) Create(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ReceiptFile, error) {
	row, err := r.ent.ReceiptFile.Create().
		SetSourcePath(sourcePath).
		SetFilename(filename).
		SetFileExt(ext).
		SetFileSize(size).
		SetContentHash(hash).
		SetUploadedAt(uploadedAt).
		Save(ctx)
	if err != nil {
		r.logger.Error("failed to create receipt file", "source_path", sourcePath, "filename", filename, "error", err)
		return nil, err
	}
	return utils.ToReceiptFile(row), nil
}

// UpsertByHash returns the existing row for an already-seen content hash; the
// bool reports whether the file was a duplicate.
func (r *receiptFileRepo) UpsertByHash(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ReceiptFile, bool, error) {
	if existing, err := r.GetByHash(ctx, hash); err == nil {
		return existing, true, nil
	}
	row, err := r.Create(ctx, sourcePath, filename, ext, size, hash, uploadedAt)
	if err != nil {
		return nil, false, err
	}
	return row, false, nil
}
