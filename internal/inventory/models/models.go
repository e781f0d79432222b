package models

import "wardstock/pkg/domain"

// Item is an inventory row. Quantity is never negative.
type Item struct {
	ID       domain.ItemID `json:"item_id"`
	Name     string        `json:"item_name"`
	Quantity int           `json:"quantity"`
}

// CreateRequest is the body of POST /inventory.
type CreateRequest struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity *int   `json:"quantity"`
}

// UpdateRequest is the body of PUT /inventory/{itemId}. Nil fields were
// omitted by the caller.
type UpdateRequest struct {
	ItemName *string `json:"item_name"`
	Quantity *int    `json:"quantity"`
}

// ItemResponse wraps a single item.
type ItemResponse struct {
	Item *Item `json:"item"`
}

// InventoryResponse wraps the item list.
type InventoryResponse struct {
	Inventory []*Item `json:"inventory"`
}

// MessageResponse is returned by delete.
type MessageResponse struct {
	Message string `json:"message"`
}
