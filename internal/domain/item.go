package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Reserved item document keys. Everything else a client sends is kept in
// Item.Attributes and round-tripped verbatim.
const (
	FieldID        = "_id"
	FieldQuantity  = "quantity"
	FieldUserEmail = "userEmail"
)

// Item is an inventory record. Beyond the identifier, quantity and owner,
// an item carries free-form attributes (name, price, supplier, ...).
type Item struct {
	// ID is assigned by the store on insert.
	ID string

	Quantity int64

	// UserEmail identifies the owner; "my items" listings filter on it.
	UserEmail string

	Attributes map[string]any
}

// Validate checks if the Item has valid data.
func (i *Item) Validate() error {
	if i.Quantity < 0 {
		return NewValidationError(FieldQuantity, "must not be negative", ErrNegativeQuantity)
	}

	if i.UserEmail != "" {
		if err := ValidateEmail(i.UserEmail); err != nil {
			return NewValidationError(FieldUserEmail, "must be a valid email", err)
		}
	}

	return nil
}

// MarshalJSON flattens the attributes next to the reserved fields.
func (i Item) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(i.Attributes)+3)
	for k, v := range i.Attributes {
		doc[k] = v
	}
	doc[FieldID] = i.ID
	doc[FieldQuantity] = i.Quantity
	if i.UserEmail != "" {
		doc[FieldUserEmail] = i.UserEmail
	}
	return json.Marshal(doc)
}

// UnmarshalJSON accepts any JSON object. A client-supplied _id is discarded.
func (i *Item) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	if doc == nil {
		return NewValidationError("item", "must be a JSON object", nil)
	}

	*i = Item{}

	if raw, ok := doc[FieldQuantity]; ok && raw != nil {
		q, err := quantityFromJSON(raw)
		if err != nil {
			return err
		}
		i.Quantity = q
	}

	if raw, ok := doc[FieldUserEmail]; ok && raw != nil {
		email, ok := raw.(string)
		if !ok {
			return NewValidationError(FieldUserEmail, "must be a string", nil)
		}
		i.UserEmail = email
	}

	delete(doc, FieldID)
	delete(doc, FieldQuantity)
	delete(doc, FieldUserEmail)
	if len(doc) > 0 {
		attrs, err := normalizeNumbers("", doc)
		if err != nil {
			return err
		}
		i.Attributes = attrs.(map[string]any)
	}

	return nil
}

// AddQuantity returns q+delta floored at zero. An increment that would
// exceed the int64 range is rejected rather than wrapped.
func AddQuantity(q, delta int64) (int64, error) {
	if delta > 0 && q > math.MaxInt64-delta {
		return 0, NewQuantityOverflowError()
	}
	if delta < 0 && q < math.MinInt64-delta {
		return 0, nil
	}
	return max(0, q+delta), nil
}

// NewQuantityOverflowError reports an increment past the largest storable quantity.
func NewQuantityOverflowError() error {
	return NewValidationError(FieldQuantity, "increment exceeds the maximum quantity", ErrQuantityOverflow)
}

func quantityFromJSON(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		q, err := v.Int64()
		if err != nil {
			return 0, NewValidationError(FieldQuantity, fmt.Sprintf("must be an integer, got %s", v), nil)
		}
		return q, nil
	default:
		return 0, NewValidationError(FieldQuantity, "must be a number", nil)
	}
}

// normalizeNumbers turns json.Number values into int64 when integral and
// float64 otherwise, so attributes store as native numbers. Numbers outside
// the float64 range are rejected; key names the offending attribute.
func normalizeNumbers(key string, v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		f, err := t.Float64()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, NewValidationError(key, "must be a finite number", nil)
		}
		return f, nil
	case map[string]any:
		for k, val := range t {
			n, err := normalizeNumbers(k, val)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case []any:
		for idx, val := range t {
			n, err := normalizeNumbers(key, val)
			if err != nil {
				return nil, err
			}
			t[idx] = n
		}
		return t, nil
	default:
		return v, nil
	}
}

// DecodeAttributes parses a stored JSON attribute object, keeping integral
// numbers as int64.
func DecodeAttributes(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	if len(doc) == 0 {
		return nil, nil
	}
	attrs, err := normalizeNumbers("", doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attributes: %w", err)
	}
	return attrs.(map[string]any), nil
}
