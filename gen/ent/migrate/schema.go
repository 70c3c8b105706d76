// Code generated by ent, DO NOT EDIT.

package migrate

import (
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// ExtractJobsColumns holds the columns for the "extract_jobs" table.
	ExtractJobsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "format", Type: field.TypeString},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "finished_at", Type: field.TypeTime, Nullable: true},
		{Name: "status", Type: field.TypeString, Default: "QUEUED"},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "ocr_confidence", Type: field.TypeFloat32, Nullable: true},
		{Name: "needs_review", Type: field.TypeBool, Default: false},
		{Name: "ocr_text", Type: field.TypeString, Nullable: true, SchemaType: map[string]string{"postgres": "text"}},
		{Name: "extracted_json", Type: field.TypeJSON, Nullable: true},
		{Name: "receipt_id", Type: field.TypeUUID, Nullable: true},
		{Name: "file_id", Type: field.TypeUUID},
	}
	// ExtractJobsTable holds the schema information for the "extract_jobs" table.
	ExtractJobsTable = &schema.Table{
		Name:       "extract_jobs",
		Columns:    ExtractJobsColumns,
		PrimaryKey: []*schema.Column{ExtractJobsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "extract_jobs_receipts_jobs",
				Columns:    []*schema.Column{ExtractJobsColumns[10]},
				RefColumns: []*schema.Column{ReceiptsColumns[0]},
				OnDelete:   schema.SetNull,
			},
			{
				Symbol:     "extract_jobs_receipt_files_jobs",
				Columns:    []*schema.Column{ExtractJobsColumns[11]},
				RefColumns: []*schema.Column{ReceiptFilesColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "extractjob_status_started_at",
				Unique:  false,
				Columns: []*schema.Column{ExtractJobsColumns[4], ExtractJobsColumns[2]},
			},
			{
				Name:    "extractjob_file_id",
				Unique:  false,
				Columns: []*schema.Column{ExtractJobsColumns[11]},
			},
			{
				Name:    "extractjob_receipt_id",
				Unique:  false,
				Columns: []*schema.Column{ExtractJobsColumns[10]},
			},
		},
	}
	// ReceiptsColumns holds the columns for the "receipts" table.
	ReceiptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "store_name", Type: field.TypeString},
		{Name: "purchase_date", Type: field.TypeTime, SchemaType: map[string]string{"postgres": "date"}},
		{Name: "date_found", Type: field.TypeBool, Default: true},
		{Name: "total_amount", Type: field.TypeFloat64, SchemaType: map[string]string{"postgres": "numeric(12,2)"}},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// ReceiptsTable holds the schema information for the "receipts" table.
	ReceiptsTable = &schema.Table{
		Name:       "receipts",
		Columns:    ReceiptsColumns,
		PrimaryKey: []*schema.Column{ReceiptsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "receipt_purchase_date",
				Unique:  false,
				Columns: []*schema.Column{ReceiptsColumns[2]},
			},
			{
				Name:    "receipt_store_name",
				Unique:  false,
				Columns: []*schema.Column{ReceiptsColumns[1]},
			},
		},
	}
	// ReceiptFilesColumns holds the columns for the "receipt_files" table.
	ReceiptFilesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "source_path", Type: field.TypeString},
		{Name: "content_hash", Type: field.TypeBytes, SchemaType: map[string]string{"postgres": "bytea"}},
		{Name: "filename", Type: field.TypeString},
		{Name: "file_ext", Type: field.TypeString},
		{Name: "file_size", Type: field.TypeInt},
		{Name: "uploaded_at", Type: field.TypeTime},
	}
	// ReceiptFilesTable holds the schema information for the "receipt_files" table.
	ReceiptFilesTable = &schema.Table{
		Name:       "receipt_files",
		Columns:    ReceiptFilesColumns,
		PrimaryKey: []*schema.Column{ReceiptFilesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "receiptfile_content_hash",
				Unique:  true,
				Columns: []*schema.Column{ReceiptFilesColumns[2]},
			},
			{
				Name:    "receiptfile_uploaded_at",
				Unique:  false,
				Columns: []*schema.Column{ReceiptFilesColumns[6]},
			},
		},
	}
	// ReceiptItemsColumns holds the columns for the "receipt_items" table.
	ReceiptItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "name", Type: field.TypeString},
		{Name: "quantity", Type: field.TypeInt},
		{Name: "unit_price", Type: field.TypeFloat64, SchemaType: map[string]string{"postgres": "numeric(12,2)"}},
		{Name: "receipt_id", Type: field.TypeUUID},
	}
	// ReceiptItemsTable holds the schema information for the "receipt_items" table.
	ReceiptItemsTable = &schema.Table{
		Name:       "receipt_items",
		Columns:    ReceiptItemsColumns,
		PrimaryKey: []*schema.Column{ReceiptItemsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "receipt_items_receipts_items",
				Columns:    []*schema.Column{ReceiptItemsColumns[4]},
				RefColumns: []*schema.Column{ReceiptsColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "receiptitem_receipt_id",
				Unique:  false,
				Columns: []*schema.Column{ReceiptItemsColumns[4]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ExtractJobsTable,
		ReceiptsTable,
		ReceiptFilesTable,
		ReceiptItemsTable,
	}
)

func init() {
	ExtractJobsTable.ForeignKeys[0].RefTable = ReceiptsTable
	ExtractJobsTable.ForeignKeys[1].RefTable = ReceiptFilesTable
	ExtractJobsTable.Annotation = &entsql.Annotation{
		Table: "extract_jobs",
	}
	ReceiptsTable.Annotation = &entsql.Annotation{
		Table: "receipts",
	}
	ReceiptFilesTable.Annotation = &entsql.Annotation{
		Table: "receipt_files",
	}
	ReceiptItemsTable.ForeignKeys[0].RefTable = ReceiptsTable
	ReceiptItemsTable.Annotation = &entsql.Annotation{
		Table: "receipt_items",
	}
}
