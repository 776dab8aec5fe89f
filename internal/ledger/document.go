package ledger

import (
	"bytes"
	"encoding/json"

	"vetclinic/m/domain"
)

// Export serializes the whole document as indented JSON. Products carry
// their whole-unit stock computed from batches.
func Export(st *State) ([]byte, error) {
	doc := *st
	doc.Products = make([]domain.Product, len(st.Products))
	for i, p := range st.Products {
		doc.Products[i] = withStock(p)
	}
	return json.MarshalIndent(&doc, "", "  ")
}

// Import parses a document produced by Export. Missing top-level keys take
// their defaults; malformed JSON, missing counters or a products field that
// is not a list fail with ErrDataCorruption.
func Import(data []byte) (*State, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fail(ErrDataCorruption, "invalid JSON: %v", err)
	}
	if top == nil {
		return nil, fail(ErrDataCorruption, "document is not an object")
	}
	counters, ok := top["counters"]
	if !ok || isNull(counters) {
		return nil, fail(ErrDataCorruption, "missing counters")
	}
	if products, ok := top["products"]; !ok || !bytes.HasPrefix(bytes.TrimSpace(products), []byte("[")) {
		return nil, fail(ErrDataCorruption, "products must be a list")
	}

	st := NewState()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fail(ErrDataCorruption, "%v", err)
	}
	st.normalize()
	return st, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
