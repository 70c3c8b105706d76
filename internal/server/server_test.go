package server_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	receiptspb "github.com/mtaiwo/receiptscan/gen/proto/receipts/v1"
	"github.com/mtaiwo/receiptscan/internal/async"
	"github.com/mtaiwo/receiptscan/internal/entity"
	"github.com/mtaiwo/receiptscan/internal/export"
	"github.com/mtaiwo/receiptscan/internal/ingest"
	"github.com/mtaiwo/receiptscan/internal/repository"
	"github.com/mtaiwo/receiptscan/internal/server"
)

func TestServer(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	RegisterFailHandler(Fail)
	RunSpecs(t, "Server Suite")
}

type fakeIngestor struct {
	result ingest.IngestionResult
	err    error
}

func (f *fakeIngestor) IngestPath(context.Context, string) (ingest.IngestionResult, error) {
	return f.result, f.err
}

func (f *fakeIngestor) IngestDirectory(context.Context, string, bool) ([]ingest.IngestionResult, ingest.DirStats, error) {
	if f.err != nil {
		return nil, ingest.DirStats{}, f.err
	}
	return []ingest.IngestionResult{f.result}, ingest.DirStats{Scanned: 2, Matched: 1, Succeeded: 1}, nil
}

type fakeQueue struct {
	jobs []async.Job
}

func (q *fakeQueue) Enqueue(_ context.Context, job async.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) Shutdown(context.Context) {}

type fakeRepo struct {
	receipts []*entity.Receipt
	err      error
}

func (r *fakeRepo) ListReceipts(_ context.Context, from, to *time.Time) ([]*entity.Receipt, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.Receipt
	for _, rec := range r.receipts {
		if from != nil && rec.PurchaseDate.Before(*from) {
			continue
		}
		if to != nil && rec.PurchaseDate.After(*to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *fakeRepo) GetReceipt(_ context.Context, id uuid.UUID) (*entity.Receipt, error) {
	for _, rec := range r.receipts {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeRepo) CreateFromParse(context.Context, *repository.CreateReceiptRequest) (*entity.Receipt, error) {
	return nil, errors.New("not implemented")
}

var _ = Describe("IngestionService", func() {
	var (
		ingestor *fakeIngestor
		queue    *fakeQueue
		svc      *server.IngestionService
		fileID   uuid.UUID
	)

	BeforeEach(func() {
		fileID = uuid.New()
		ingestor = &fakeIngestor{result: ingest.IngestionResult{
			FileID:     fileID.String(),
			SourcePath: "/in/receipt.jpg",
			HashHex:    "abc123",
		}}
		queue = &fakeQueue{}
		svc = server.NewIngestionService(ingestor, queue, nil)
	})

	Describe("IngestFile", func() {
		It("queues a fresh file for processing", func() {
			resp, err := svc.IngestFile(context.Background(), &receiptspb.IngestFileRequest{Path: "/in/receipt.jpg"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.FileId).To(Equal(fileID.String()))
			Expect(queue.jobs).To(HaveLen(1))
			Expect(queue.jobs[0].FileID).To(Equal(fileID))
		})

		It("does not requeue a deduplicated file", func() {
			ingestor.result.Deduplicated = true
			resp, err := svc.IngestFile(context.Background(), &receiptspb.IngestFileRequest{Path: "/in/receipt.jpg"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Deduplicated).To(BeTrue())
			Expect(queue.jobs).To(BeEmpty())
		})

		It("rejects an empty path", func() {
			_, err := svc.IngestFile(context.Background(), &receiptspb.IngestFileRequest{})
			Expect(status.Code(err)).To(Equal(codes.InvalidArgument))
		})

		It("maps ingest failures to InvalidArgument", func() {
			ingestor.err = errors.New("unsupported or missing extension")
			_, err := svc.IngestFile(context.Background(), &receiptspb.IngestFileRequest{Path: "/in/receipt.exe"})
			Expect(status.Code(err)).To(Equal(codes.InvalidArgument))
		})
	})

	Describe("IngestDirectory", func() {
		It("reports stats and queues new files", func() {
			resp, err := svc.IngestDirectory(context.Background(), &receiptspb.IngestDirectoryRequest{RootPath: "/in", SkipHidden: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Scanned).To(Equal(uint32(2)))
			Expect(resp.Succeeded).To(Equal(uint32(1)))
			Expect(resp.Files).To(HaveLen(1))
			Expect(queue.jobs).To(HaveLen(1))
		})

		It("rejects an empty root", func() {
			_, err := svc.IngestDirectory(context.Background(), &receiptspb.IngestDirectoryRequest{})
			Expect(status.Code(err)).To(Equal(codes.InvalidArgument))
		})
	})
})

var _ = Describe("ReceiptService", func() {
	var (
		repo *fakeRepo
		svc  *server.ReceiptService
		rec  *entity.Receipt
	)

	BeforeEach(func() {
		rec = &entity.Receipt{
			ID:           uuid.New(),
			StoreName:    "Joe's Cafe",
			PurchaseDate: time.Date(2023, time.March, 12, 0, 0, 0, 0, time.UTC),
			DateFound:    true,
			TotalAmount:  7.00,
			Items: []entity.ReceiptItem{
				{ID: uuid.New(), Name: "Coffee", Quantity: 2, UnitPrice: 3.50},
			},
		}
		repo = &fakeRepo{receipts: []*entity.Receipt{rec}}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc = server.NewReceiptService(repo, export.NewService(repo, logger), logger)
	})

	Describe("ListReceipts", func() {
		It("returns wire-format receipts", func() {
			resp, err := svc.ListReceipts(context.Background(), &receiptspb.ListReceiptsRequest{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Receipts).To(HaveLen(1))
			Expect(resp.Receipts[0].StoreName).To(Equal("Joe's Cafe"))
			Expect(resp.Receipts[0].TotalAmount).To(Equal("7.00"))
			Expect(resp.Receipts[0].PurchaseDate).To(Equal("2023-03-12"))
		})

		It("filters by the date window", func() {
			resp, err := svc.ListReceipts(context.Background(), &receiptspb.ListReceiptsRequest{FromDate: "2024-01-01"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Receipts).To(BeEmpty())
		})

		It("rejects malformed dates", func() {
			_, err := svc.ListReceipts(context.Background(), &receiptspb.ListReceiptsRequest{FromDate: "12/03/2023"})
			Expect(status.Code(err)).To(Equal(codes.InvalidArgument))
		})

		It("rejects an inverted window", func() {
			_, err := svc.ListReceipts(context.Background(), &receiptspb.ListReceiptsRequest{FromDate: "2024-01-01", ToDate: "2023-01-01"})
			Expect(status.Code(err)).To(Equal(codes.InvalidArgument))
		})

		It("surfaces repository failures as Internal", func() {
			repo.err = errors.New("connection reset")
			_, err := svc.ListReceipts(context.Background(), &receiptspb.ListReceiptsRequest{})
			Expect(status.Code(err)).To(Equal(codes.Internal))
		})
	})

	Describe("GetReceipt", func() {
		It("returns the receipt with items", func() {
			resp, err := svc.GetReceipt(context.Background(), &receiptspb.GetReceiptRequest{Id: rec.ID.String()})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Receipt.Items).To(HaveLen(1))
			Expect(resp.Receipt.Items[0].Name).To(Equal("Coffee"))
		})

		It("returns NotFound for unknown ids", func() {
			_, err := svc.GetReceipt(context.Background(), &receiptspb.GetReceiptRequest{Id: uuid.NewString()})
			Expect(status.Code(err)).To(Equal(codes.NotFound))
		})

		It("rejects a malformed id", func() {
			_, err := svc.GetReceipt(context.Background(), &receiptspb.GetReceiptRequest{Id: "nope"})
			Expect(status.Code(err)).To(Equal(codes.InvalidArgument))
		})
	})

	Describe("ExportReceipts", func() {
		It("returns workbook bytes and a filename", func() {
			resp, err := svc.ExportReceipts(context.Background(), &receiptspb.ExportReceiptsRequest{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Xlsx).NotTo(BeEmpty())
			Expect(resp.Filename).To(HavePrefix("receipts-"))
		})
	})
})
