package processor_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/google/uuid"

	"github.com/mtaiwo/receiptscan/constants"
	"github.com/mtaiwo/receiptscan/internal/entity"
	"github.com/mtaiwo/receiptscan/internal/extract"
	processor "github.com/mtaiwo/receiptscan/internal/pipeline"
	"github.com/mtaiwo/receiptscan/internal/repository"
)

func TestProcessor(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	RegisterFailHandler(Fail)
	RunSpecs(t, "Processor Suite")
}

type fakeFiles struct {
	rows map[uuid.UUID]*entity.ReceiptFile
}

func (f *fakeFiles) GetByID(_ context.Context, id uuid.UUID) (*entity.ReceiptFile, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, errors.New("file not found")
	}
	return row, nil
}

func (f *fakeFiles) GetByHash(context.Context, []byte) (*entity.ReceiptFile, error) {
	return nil, errors.New("not found")
}

func (f *fakeFiles) Create(_ context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ReceiptFile, error) {
	row := &entity.ReceiptFile{ID: uuid.New(), SourcePath: sourcePath, Filename: filename, FileExt: ext, FileSize: size, ContentHash: hash, UploadedAt: uploadedAt}
	f.rows[row.ID] = row
	return row, nil
}

func (f *fakeFiles) UpsertByHash(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ReceiptFile, bool, error) {
	row, err := f.Create(ctx, sourcePath, filename, ext, size, hash, uploadedAt)
	return row, false, err
}

type fakeJobs struct {
	jobs map[uuid.UUID]*entity.ExtractJob
}

func (j *fakeJobs) Start(_ context.Context, fileID uuid.UUID, format string) (*entity.ExtractJob, error) {
	job := &entity.ExtractJob{ID: uuid.New(), FileID: fileID, Format: format, Status: string(constants.JobRunning), StartedAt: time.Now()}
	j.jobs[job.ID] = job
	return job, nil
}

func (j *fakeJobs) FinishOCRSuccess(_ context.Context, jobID uuid.UUID, ocrText string, confidence float32) error {
	job := j.jobs[jobID]
	job.OCRText = &ocrText
	job.OCRConfidence = &confidence
	job.Status = string(constants.JobOCROK)
	return nil
}

func (j *fakeJobs) FinishParseSuccess(_ context.Context, jobID, receiptID uuid.UUID, payload json.RawMessage, needsReview bool) error {
	job := j.jobs[jobID]
	job.ReceiptID = &receiptID
	job.ExtractedJSON = payload
	job.NeedsReview = needsReview
	job.Status = string(constants.JobParseOK)
	return nil
}

func (j *fakeJobs) FinishFailure(_ context.Context, jobID uuid.UUID, message string) error {
	job := j.jobs[jobID]
	job.Status = string(constants.JobFailed)
	job.ErrorMessage = &message
	return nil
}

func (j *fakeJobs) GetByID(_ context.Context, jobID uuid.UUID) (*entity.ExtractJob, error) {
	job, ok := j.jobs[jobID]
	if !ok {
		return nil, errors.New("job not found")
	}
	cp := *job
	return &cp, nil
}

type fakeReceipts struct {
	created []*entity.Receipt
	err     error
}

func (r *fakeReceipts) ListReceipts(context.Context, *time.Time, *time.Time) ([]*entity.Receipt, error) {
	return r.created, nil
}

func (r *fakeReceipts) GetReceipt(context.Context, uuid.UUID) (*entity.Receipt, error) {
	return nil, errors.New("not found")
}

func (r *fakeReceipts) CreateFromParse(_ context.Context, req *repository.CreateReceiptRequest) (*entity.Receipt, error) {
	if r.err != nil {
		return nil, r.err
	}
	p := req.Parsed
	date := req.FallbackDate
	found := false
	if p.PurchaseDate != nil {
		date = *p.PurchaseDate
		found = true
	}
	rec := &entity.Receipt{
		ID:           uuid.New(),
		StoreName:    p.StoreName,
		PurchaseDate: date,
		DateFound:    found,
		TotalAmount:  p.TotalAmount,
	}
	r.created = append(r.created, rec)
	return rec, nil
}

type fakeExtractor struct {
	res extract.TextExtractionResult
	err error
}

func (f *fakeExtractor) Extract(context.Context, string) (extract.TextExtractionResult, error) {
	return f.res, f.err
}

var _ = Describe("Processor.ProcessFile", func() {
	var (
		files     *fakeFiles
		jobs      *fakeJobs
		receipts  *fakeReceipts
		extractor *fakeExtractor
		proc      *processor.Processor
		fileID    uuid.UUID
		uploaded  time.Time
	)

	BeforeEach(func() {
		uploaded = time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
		fileID = uuid.New()
		files = &fakeFiles{rows: map[uuid.UUID]*entity.ReceiptFile{
			fileID: {ID: fileID, SourcePath: "/in/receipt.jpg", Filename: "receipt.jpg", FileExt: "jpg", UploadedAt: uploaded},
		}}
		jobs = &fakeJobs{jobs: map[uuid.UUID]*entity.ExtractJob{}}
		receipts = &fakeReceipts{}
		extractor = &fakeExtractor{res: extract.TextExtractionResult{
			Text:       "Joe's Cafe\n12/03/2023\nCoffee 2 3.50\nTotal: 7.00",
			Method:     "image-ocr",
			Pages:      1,
			Confidence: 0.92,
		}}

		ocrStage := processor.NewOCRStage(files, jobs, extractor, nil)
		parseStage := processor.NewParseStage(nil, processor.Config{}, jobs, files, receipts, nil)
		proc = processor.NewProcessor(nil, ocrStage, parseStage)
	})

	When("OCR and parse both succeed", func() {
		var jobID uuid.UUID

		JustBeforeEach(func() {
			var err error
			jobID, err = proc.ProcessFile(context.Background(), fileID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("advances the job to PARSE_OK", func() {
			Expect(jobs.jobs[jobID].Status).To(Equal(string(constants.JobParseOK)))
		})

		It("persists the parsed receipt", func() {
			Expect(receipts.created).To(HaveLen(1))
			rec := receipts.created[0]
			Expect(rec.StoreName).To(Equal("Joe's Cafe"))
			Expect(rec.TotalAmount).To(Equal(7.00))
			Expect(rec.DateFound).To(BeTrue())
		})

		It("stores the validated payload on the job", func() {
			Expect(jobs.jobs[jobID].ExtractedJSON).NotTo(BeEmpty())
			Expect(jobs.jobs[jobID].ReceiptID).NotTo(BeNil())
		})

		It("does not flag a clean result for review", func() {
			Expect(jobs.jobs[jobID].NeedsReview).To(BeFalse())
		})
	})

	When("OCR fails", func() {
		BeforeEach(func() {
			extractor.err = errors.New("tesseract: exit 1")
		})

		It("marks the job FAILED and returns the error", func() {
			jobID, err := proc.ProcessFile(context.Background(), fileID)
			Expect(err).To(HaveOccurred())
			Expect(jobs.jobs[jobID].Status).To(Equal(string(constants.JobFailed)))
			Expect(receipts.created).To(BeEmpty())
		})
	})

	When("the receipt has no recognizable date", func() {
		BeforeEach(func() {
			extractor.res.Text = "Joe's Cafe\nCoffee 2 3.50\nTotal: 7.00"
		})

		It("substitutes the upload date and flags review", func() {
			jobID, err := proc.ProcessFile(context.Background(), fileID)
			Expect(err).NotTo(HaveOccurred())
			Expect(receipts.created).To(HaveLen(1))
			Expect(receipts.created[0].PurchaseDate).To(Equal(uploaded))
			Expect(receipts.created[0].DateFound).To(BeFalse())
			Expect(jobs.jobs[jobID].NeedsReview).To(BeTrue())
		})
	})

	When("OCR confidence is below the threshold", func() {
		BeforeEach(func() {
			extractor.res.Confidence = 0.35
		})

		It("flags the job for review but still persists", func() {
			jobID, err := proc.ProcessFile(context.Background(), fileID)
			Expect(err).NotTo(HaveOccurred())
			Expect(jobs.jobs[jobID].Status).To(Equal(string(constants.JobParseOK)))
			Expect(jobs.jobs[jobID].NeedsReview).To(BeTrue())
		})
	})

	When("persistence fails", func() {
		BeforeEach(func() {
			receipts.err = errors.New("db down")
		})

		It("marks the job FAILED", func() {
			jobID, err := proc.ProcessFile(context.Background(), fileID)
			Expect(err).To(HaveOccurred())
			Expect(jobs.jobs[jobID].Status).To(Equal(string(constants.JobFailed)))
		})
	})

	When("the file has an unsupported extension", func() {
		BeforeEach(func() {
			files.rows[fileID].FileExt = "docx"
		})

		It("fails before starting a job", func() {
			_, err := proc.ProcessFile(context.Background(), fileID)
			Expect(err).To(HaveOccurred())
			Expect(jobs.jobs).To(BeEmpty())
		})
	})
})
