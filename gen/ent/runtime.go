// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/google/uuid"
	"github.com/mtaiwo/receiptscan/db/ent/schema"
	"github.com/mtaiwo/receiptscan/gen/ent/extractjob"
	"github.com/mtaiwo/receiptscan/gen/ent/receipt"
	"github.com/mtaiwo/receiptscan/gen/ent/receiptfile"
	"github.com/mtaiwo/receiptscan/gen/ent/receiptitem"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	extractjobFields := schema.ExtractJob{}.Fields()
	_ = extractjobFields
	// extractjobDescFormat is the schema descriptor for format field.
	extractjobDescFormat := extractjobFields[3].Descriptor()
	// extractjob.FormatValidator is a validator for the "format" field. It is called by the builders before save.
	extractjob.FormatValidator = func() func(string) error {
		validators := extractjobDescFormat.Validators
		fns := [...]func(string) error{
			validators[0].(func(string) error),
			validators[1].(func(string) error),
		}
		return func(format string) error {
			for _, fn := range fns {
				if err := fn(format); err != nil {
					return err
				}
			}
			return nil
		}
	}()
	// extractjobDescStartedAt is the schema descriptor for started_at field.
	extractjobDescStartedAt := extractjobFields[4].Descriptor()
	// extractjob.DefaultStartedAt holds the default value on creation for the started_at field.
	extractjob.DefaultStartedAt = extractjobDescStartedAt.Default.(func() time.Time)
	// extractjobDescStatus is the schema descriptor for status field.
	extractjobDescStatus := extractjobFields[6].Descriptor()
	// extractjob.DefaultStatus holds the default value on creation for the status field.
	extractjob.DefaultStatus = extractjobDescStatus.Default.(string)
	// extractjob.StatusValidator is a validator for the "status" field. It is called by the builders before save.
	extractjob.StatusValidator = extractjobDescStatus.Validators[0].(func(string) error)
	// extractjobDescNeedsReview is the schema descriptor for needs_review field.
	extractjobDescNeedsReview := extractjobFields[9].Descriptor()
	// extractjob.DefaultNeedsReview holds the default value on creation for the needs_review field.
	extractjob.DefaultNeedsReview = extractjobDescNeedsReview.Default.(bool)
	// extractjobDescID is the schema descriptor for id field.
	extractjobDescID := extractjobFields[0].Descriptor()
	// extractjob.DefaultID holds the default value on creation for the id field.
	extractjob.DefaultID = extractjobDescID.Default.(func() uuid.UUID)
	receiptFields := schema.Receipt{}.Fields()
	_ = receiptFields
	// receiptDescStoreName is the schema descriptor for store_name field.
	receiptDescStoreName := receiptFields[1].Descriptor()
	// receipt.StoreNameValidator is a validator for the "store_name" field. It is called by the builders before save.
	receipt.StoreNameValidator = receiptDescStoreName.Validators[0].(func(string) error)
	// receiptDescDateFound is the schema descriptor for date_found field.
	receiptDescDateFound := receiptFields[3].Descriptor()
	// receipt.DefaultDateFound holds the default value on creation for the date_found field.
	receipt.DefaultDateFound = receiptDescDateFound.Default.(bool)
	// receiptDescCreatedAt is the schema descriptor for created_at field.
	receiptDescCreatedAt := receiptFields[5].Descriptor()
	// receipt.DefaultCreatedAt holds the default value on creation for the created_at field.
	receipt.DefaultCreatedAt = receiptDescCreatedAt.Default.(func() time.Time)
	// receiptDescUpdatedAt is the schema descriptor for updated_at field.
	receiptDescUpdatedAt := receiptFields[6].Descriptor()
	// receipt.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	receipt.DefaultUpdatedAt = receiptDescUpdatedAt.Default.(func() time.Time)
	// receipt.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	receipt.UpdateDefaultUpdatedAt = receiptDescUpdatedAt.UpdateDefault.(func() time.Time)
	// receiptDescID is the schema descriptor for id field.
	receiptDescID := receiptFields[0].Descriptor()
	// receipt.DefaultID holds the default value on creation for the id field.
	receipt.DefaultID = receiptDescID.Default.(func() uuid.UUID)
	receiptfileFields := schema.ReceiptFile{}.Fields()
	_ = receiptfileFields
	// receiptfileDescSourcePath is the schema descriptor for source_path field.
	receiptfileDescSourcePath := receiptfileFields[1].Descriptor()
	// receiptfile.SourcePathValidator is a validator for the "source_path" field. It is called by the builders before save.
	receiptfile.SourcePathValidator = receiptfileDescSourcePath.Validators[0].(func(string) error)
	// receiptfileDescContentHash is the schema descriptor for content_hash field.
	receiptfileDescContentHash := receiptfileFields[2].Descriptor()
	// receiptfile.ContentHashValidator is a validator for the "content_hash" field. It is called by the builders before save.
	receiptfile.ContentHashValidator = receiptfileDescContentHash.Validators[0].(func([]byte) error)
	// receiptfileDescFilename is the schema descriptor for filename field.
	receiptfileDescFilename := receiptfileFields[3].Descriptor()
	// receiptfile.FilenameValidator is a validator for the "filename" field. It is called by the builders before save.
	receiptfile.FilenameValidator = receiptfileDescFilename.Validators[0].(func(string) error)
	// receiptfileDescFileExt is the schema descriptor for file_ext field.
	receiptfileDescFileExt := receiptfileFields[4].Descriptor()
	// receiptfile.FileExtValidator is a validator for the "file_ext" field. It is called by the builders before save.
	receiptfile.FileExtValidator = receiptfileDescFileExt.Validators[0].(func(string) error)
	// receiptfileDescFileSize is the schema descriptor for file_size field.
	receiptfileDescFileSize := receiptfileFields[5].Descriptor()
	// receiptfile.FileSizeValidator is a validator for the "file_size" field. It is called by the builders before save.
	receiptfile.FileSizeValidator = receiptfileDescFileSize.Validators[0].(func(int) error)
	// receiptfileDescUploadedAt is the schema descriptor for uploaded_at field.
	receiptfileDescUploadedAt := receiptfileFields[6].Descriptor()
	// receiptfile.DefaultUploadedAt holds the default value on creation for the uploaded_at field.
	receiptfile.DefaultUploadedAt = receiptfileDescUploadedAt.Default.(func() time.Time)
	// receiptfileDescID is the schema descriptor for id field.
	receiptfileDescID := receiptfileFields[0].Descriptor()
	// receiptfile.DefaultID holds the default value on creation for the id field.
	receiptfile.DefaultID = receiptfileDescID.Default.(func() uuid.UUID)
	receiptitemFields := schema.ReceiptItem{}.Fields()
	_ = receiptitemFields
	// receiptitemDescName is the schema descriptor for name field.
	receiptitemDescName := receiptitemFields[2].Descriptor()
	// receiptitem.NameValidator is a validator for the "name" field. It is called by the builders before save.
	receiptitem.NameValidator = receiptitemDescName.Validators[0].(func(string) error)
	// receiptitemDescQuantity is the schema descriptor for quantity field.
	receiptitemDescQuantity := receiptitemFields[3].Descriptor()
	// receiptitem.QuantityValidator is a validator for the "quantity" field. It is called by the builders before save.
	receiptitem.QuantityValidator = receiptitemDescQuantity.Validators[0].(func(int) error)
	// receiptitemDescID is the schema descriptor for id field.
	receiptitemDescID := receiptitemFields[0].Descriptor()
	// receiptitem.DefaultID holds the default value on creation for the id field.
	receiptitem.DefaultID = receiptitemDescID.Default.(func() uuid.UUID)
}
