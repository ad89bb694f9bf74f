package main

import "github.com/printdesk/versions/internal/models"

// withEntityType runs the variant of a generic command matching typeName.
func withEntityType(typeName string, order, customer, artwork func() error) error {
	t, err := models.ParseEntityType(typeName)
	if err != nil {
		return err
	}

	switch t {
	case models.EntityOrder:
		return order()
	case models.EntityCustomer:
		return customer()
	default:
		return artwork()
	}
}
