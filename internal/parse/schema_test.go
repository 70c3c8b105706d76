package parse

import (
	"encoding/json"
	"testing"
)

func TestValidatePayload(t *testing.T) {
	r := New().Parse("Joe's Cafe\n12/03/2023\nCoffee 2 3.50\nTotal: 7.00")
	data, err := json.Marshal(r.Payload())
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := ValidatePayload(data); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	bad := []string{
		`{"store_name":"","date_found":false,"total_amount":"7.00","items":[]}`,
		`{"store_name":"X","date_found":false,"total_amount":"-7.00","items":[]}`,
		`{"store_name":"X","date_found":false,"total_amount":"7.00","items":[{"name":"Coffee","quantity":0,"unit_price":"3.50"}]}`,
		`{"store_name":"X","purchase_date":"12/03/2023","date_found":true,"total_amount":"7.00","items":[]}`,
	}
	for i, doc := range bad {
		if err := ValidatePayload([]byte(doc)); err == nil {
			t.Errorf("bad payload %d accepted", i)
		}
	}
}
