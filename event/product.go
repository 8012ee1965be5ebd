package event

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Event type tags for the product aggregate family. These are stable wire
// identifiers, they must never be renamed once events carrying them have
// been written to the outbox.
const (
	TypeProductCreated             = "ProductCreated"
	TypeProductUpdated             = "ProductUpdated"
	TypeProductActivated           = "ProductActivated"
	TypeProductDeactivated         = "ProductDeactivated"
	TypeProductDeleted             = "ProductDeleted"
	TypeProductVariantCreated      = "ProductVariantCreated"
	TypeProductVariantUpdated      = "ProductVariantUpdated"
	TypeProductVariantPriceChanged = "ProductVariantPriceChanged"
	TypeProductVariantDeleted      = "ProductVariantDeleted"
)

func init() {
	Register(TypeProductCreated, func(p []byte) (Event, error) {
		ev := &ProductCreated{}
		return ev, json.Unmarshal(p, ev)
	})
	Register(TypeProductUpdated, func(p []byte) (Event, error) {
		ev := &ProductUpdated{}
		return ev, json.Unmarshal(p, ev)
	})
	Register(TypeProductActivated, func(p []byte) (Event, error) {
		ev := &ProductActivated{}
		return ev, json.Unmarshal(p, ev)
	})
	Register(TypeProductDeactivated, func(p []byte) (Event, error) {
		ev := &ProductDeactivated{}
		return ev, json.Unmarshal(p, ev)
	})
	Register(TypeProductDeleted, func(p []byte) (Event, error) {
		ev := &ProductDeleted{}
		return ev, json.Unmarshal(p, ev)
	})
	Register(TypeProductVariantCreated, func(p []byte) (Event, error) {
		ev := &ProductVariantCreated{}
		return ev, json.Unmarshal(p, ev)
	})
	Register(TypeProductVariantUpdated, func(p []byte) (Event, error) {
		ev := &ProductVariantUpdated{}
		return ev, json.Unmarshal(p, ev)
	})
	Register(TypeProductVariantPriceChanged, func(p []byte) (Event, error) {
		ev := &ProductVariantPriceChanged{}
		return ev, json.Unmarshal(p, ev)
	})
	Register(TypeProductVariantDeleted, func(p []byte) (Event, error) {
		ev := &ProductVariantDeleted{}
		return ev, json.Unmarshal(p, ev)
	})
}

type ProductCreated struct {
	Header
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (e ProductCreated) EventType() string {
	return TypeProductCreated
}

type ProductUpdated struct {
	Header
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (e ProductUpdated) EventType() string {
	return TypeProductUpdated
}

type ProductActivated struct {
	Header
}

func (e ProductActivated) EventType() string {
	return TypeProductActivated
}

type ProductDeactivated struct {
	Header
}

func (e ProductDeactivated) EventType() string {
	return TypeProductDeactivated
}

type ProductDeleted struct {
	Header
}

func (e ProductDeleted) EventType() string {
	return TypeProductDeleted
}

type ProductVariantCreated struct {
	Header
	VariantId uuid.UUID `json:"variantId"`
	Sku       string    `json:"sku"`
	Price     int64     `json:"price"`
	Currency  string    `json:"currency"`
}

func (e ProductVariantCreated) EventType() string {
	return TypeProductVariantCreated
}

type ProductVariantUpdated struct {
	Header
	VariantId uuid.UUID `json:"variantId"`
	Sku       string    `json:"sku"`
}

func (e ProductVariantUpdated) EventType() string {
	return TypeProductVariantUpdated
}

type ProductVariantPriceChanged struct {
	Header
	VariantId uuid.UUID `json:"variantId"`
	OldPrice  int64     `json:"oldPrice"`
	NewPrice  int64     `json:"newPrice"`
	Currency  string    `json:"currency"`
}

func (e ProductVariantPriceChanged) EventType() string {
	return TypeProductVariantPriceChanged
}

type ProductVariantDeleted struct {
	Header
	VariantId uuid.UUID `json:"variantId"`
}

func (e ProductVariantDeleted) EventType() string {
	return TypeProductVariantDeleted
}
