// Code generated by ent, DO NOT EDIT.

package predicate

import (
	"entgo.io/ent/dialect/sql"
)

// ExtractJob is the predicate function for extractjob builders.
type ExtractJob func(*sql.Selector)

// Receipt is the predicate function for receipt builders.
type Receipt func(*sql.Selector)

// ReceiptFile is the predicate function for receiptfile builders.
type ReceiptFile func(*sql.Selector)

// ReceiptItem is the predicate function for receiptitem builders.
type ReceiptItem func(*sql.Selector)
