package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MaxQuantity bounds the units of one order line. Each unit becomes a
// production item, so the board grows with it.
const MaxQuantity = 10000

// ErrInvalidQuantity reports an order quantity that is not a whole number.
var ErrInvalidQuantity = errors.New("domain: quantity must be a whole number")

// OrderLine is one product entry of an order.
type OrderLine struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// ProductQuantities keeps order lines in insertion order. It encodes as a
// JSON object keyed by product name, the stored layout of orders.
type ProductQuantities []OrderLine

// Add increments the quantity of product, appending a new line on first use.
func (pq ProductQuantities) Add(product string, qty int) ProductQuantities {
	for i := range pq {
		if pq[i].Product == product {
			pq[i].Quantity += qty
			return pq
		}
	}
	return append(pq, OrderLine{Product: product, Quantity: qty})
}

// Quantity returns the ordered quantity of product, or zero.
func (pq ProductQuantities) Quantity(product string) int {
	for _, line := range pq {
		if line.Product == product {
			return line.Quantity
		}
	}
	return 0
}

// MarshalJSON writes the lines as an ordered JSON object.
func (pq ProductQuantities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, line := range pq {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(line.Product)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", line.Quantity)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object preserving key order.
func (pq *ProductQuantities) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*pq = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("domain: order products must be an object")
	}
	out := ProductQuantities{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("domain: unexpected order key %v", keyTok)
		}
		var raw json.Number
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("domain: quantity of %q: %w", name, err)
		}
		qty, err := raw.Int64()
		if err != nil {
			return fmt.Errorf("%q has %s: %w", name, raw, ErrInvalidQuantity)
		}
		out = out.Add(name, int(qty))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*pq = out
	return nil
}
