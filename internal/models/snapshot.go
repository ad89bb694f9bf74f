package models

import (
	"maps"
	"slices"
)

// Snapshot payloads encode every field, zero or not, so a field reset to its
// zero value still appears in the newer record and is compared.

// Address is a postal address shared by customer and order snapshots.
type Address struct {
	Street     string `json:"street"`
	Street2    string `json:"street2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (a *Address) clone() *Address {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// OrderLineItem is one product line on an order.
type OrderLineItem struct {
	Product        string         `json:"product"`
	Description    string         `json:"description"`
	Quantity       int            `json:"quantity"`
	UnitPrice      float64        `json:"unit_price"`
	Sizes          map[string]int `json:"sizes"`
	PrintLocations []string       `json:"print_locations"`
}

func (it OrderLineItem) clone() OrderLineItem {
	it.Sizes = maps.Clone(it.Sizes)
	it.PrintLocations = slices.Clone(it.PrintLocations)
	return it
}

// OrderVersion is the field set captured for an order at version time.
type OrderVersion struct {
	OrderNumber     string          `json:"order_number"`
	CustomerID      string          `json:"customer_id"`
	Status          string          `json:"status"`
	Items           []OrderLineItem `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	Total           float64         `json:"total"`
	DueDate         string          `json:"due_date"`
	Rush            bool            `json:"rush"`
	Notes           string          `json:"notes"`
	ShippingAddress *Address        `json:"shipping_address"`
}

// EntityType implements Snapshot.
func (OrderVersion) EntityType() EntityType { return EntityOrder }

// Clone returns a deep copy of o.
func (o OrderVersion) Clone() OrderVersion {
	if o.Items != nil {
		items := make([]OrderLineItem, len(o.Items))
		for i, it := range o.Items {
			items[i] = it.clone()
		}
		o.Items = items
	}
	o.ShippingAddress = o.ShippingAddress.clone()
	return o
}

// CustomerVersion is the field set captured for a customer at version time.
type CustomerVersion struct {
	Name            string   `json:"name"`
	Company         string   `json:"company"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	BillingAddress  *Address `json:"billing_address"`
	ShippingAddress *Address `json:"shipping_address"`
	TaxExempt       bool     `json:"tax_exempt"`
	Notes           string   `json:"notes"`
}

// EntityType implements Snapshot.
func (CustomerVersion) EntityType() EntityType { return EntityCustomer }

// Clone returns a deep copy of c.
func (c CustomerVersion) Clone() CustomerVersion {
	c.BillingAddress = c.BillingAddress.clone()
	c.ShippingAddress = c.ShippingAddress.clone()
	return c
}

// Artwork approval statuses.
const (
	ArtworkPending          = "pending"
	ArtworkApproved         = "approved"
	ArtworkRejected         = "rejected"
	ArtworkRevisionRequired = "revision_required"
)

// PrintDimensions is the printed size of a piece of artwork.
type PrintDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// ArtworkVersion is the field set captured for artwork at version time.
type ArtworkVersion struct {
	ArtworkID    string           `json:"artwork_id"`
	OrderID      string           `json:"order_id"`
	FileName     string           `json:"file_name"`
	FileURL      string           `json:"file_url"`
	ThumbnailURL string           `json:"thumbnail_url"`
	Status       string           `json:"status"`
	InkColors    []string         `json:"ink_colors"`
	Dimensions   *PrintDimensions `json:"dimensions"`
	Placement    string           `json:"placement"`
	Notes        string           `json:"notes"`
	ApprovedBy   string           `json:"approved_by"`
	ApprovedAt   string           `json:"approved_at"`
}

// EntityType implements Snapshot.
func (ArtworkVersion) EntityType() EntityType { return EntityArtwork }

// Clone returns a deep copy of a.
func (a ArtworkVersion) Clone() ArtworkVersion {
	a.InkColors = slices.Clone(a.InkColors)
	if a.Dimensions != nil {
		d := *a.Dimensions
		a.Dimensions = &d
	}
	return a
}

// Compile-time checks.
var (
	_ Snapshot = OrderVersion{}
	_ Snapshot = CustomerVersion{}
	_ Snapshot = ArtworkVersion{}

	_ Cloner[OrderVersion]    = OrderVersion{}
	_ Cloner[CustomerVersion] = CustomerVersion{}
	_ Cloner[ArtworkVersion]  = ArtworkVersion{}
)
