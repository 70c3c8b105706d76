package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ItemPayload is the JSON wire form of one line item. Money travels as a
// fixed two-decimal string to keep floats out of stored documents.
type ItemPayload struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// Payload is the JSON wire form of a parsed receipt.
type Payload struct {
	StoreName    string        `json:"store_name"`
	PurchaseDate string        `json:"purchase_date,omitempty"`
	DateFound    bool          `json:"date_found"`
	TotalAmount  string        `json:"total_amount"`
	Items        []ItemPayload `json:"items"`
}

// Payload converts a parsed receipt into its wire form. An absent purchase
// date is represented by date_found=false and an omitted purchase_date field,
// never a zero date.
func (r Receipt) Payload() Payload {
	p := Payload{
		StoreName:   r.StoreName,
		TotalAmount: formatAmount(r.TotalAmount),
		Items:       make([]ItemPayload, 0, len(r.Items)),
	}
	if r.PurchaseDate != nil {
		p.PurchaseDate = r.PurchaseDate.Format("2006-01-02")
		p.DateFound = true
	}
	for _, it := range r.Items {
		p.Items = append(p.Items, ItemPayload{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: formatAmount(it.UnitPrice),
		})
	}
	return p
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// BuildReceiptJSONSchema returns the draft JSON schema a receipt payload must
// satisfy before it is persisted.
func BuildReceiptJSONSchema() map[string]any {
	decimal := map[string]any{
		"type":    "string",
		"pattern": `^\d+(\.\d{1,2})?$`,
	}
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":       map[string]any{"type": "string", "minLength": 1},
			"quantity":   map[string]any{"type": "integer", "minimum": 1},
			"unit_price": decimal,
		},
		"required":             []any{"name", "quantity", "unit_price"},
		"additionalProperties": false,
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"store_name": map[string]any{"type": "string", "minLength": 1},
			"purchase_date": map[string]any{
				"type":    "string",
				"pattern": `^\d{4}-\d{2}-\d{2}$`,
			},
			"date_found":   map[string]any{"type": "boolean"},
			"total_amount": decimal,
			"items":        map[string]any{"type": "array", "items": item},
		},
		"required":             []any{"store_name", "date_found", "total_amount", "items"},
		"additionalProperties": false,
	}
}

// ValidatePayload checks a serialized payload against the receipt schema.
func ValidatePayload(data []byte) error {
	b, err := json.Marshal(BuildReceiptJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("receipt.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile("receipt.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("payload schema: %w", err)
	}
	return nil
}
