package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an item the shop buys and sells
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ImageKey  string    `json:"image_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaleList is the receipt a sale is recorded under
type SaleList struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product_id"`
	Name            string    `json:"name"`
	CustomerName    string    `json:"customer_name"`
	CustomerContact string    `json:"customer_contact"`
	CreatedOn       time.Time `json:"created_on"`
}

// Sale is a quantity of a product sold at a price
type Sale struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	SaleListID   *int64          `json:"sale_list_id,omitempty"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CreatedOn    time.Time       `json:"created_on"`
}

// StockList groups the stock rows received in one delivery
type StockList struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	CreatedOn time.Time `json:"created_on"`
}

// Stock is a quantity of a product bought at a price
type Stock struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	StockListID int64           `json:"stock_list_id"`
	Quantity    int             `json:"quantity"`
	BuyingPrice decimal.Decimal `json:"buying_price"`
	CreatedOn   time.Time       `json:"created_on"`
}

// CreateProductRequest represents the request body for POST /product
type CreateProductRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// UpdateProductRequest represents the request body for PUT /product/:product_id
type UpdateProductRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
}

// CreateSaleRequest represents the request body for POST /product/:product_id/sale
type CreateSaleRequest struct {
	Quantity        int             `json:"quantity" binding:"gt=0"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	Name            string          `json:"name,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerContact string          `json:"customer_contact,omitempty"`
}

// StockItemRequest is one element of the POST /product/:product_id/stock body
type StockItemRequest struct {
	Quantity    int             `json:"quantity" binding:"gt=0"`
	BuyingPrice decimal.Decimal `json:"buying_price"`
}

// ImageUploadRequest represents the request body for an image upload URL
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// ImageURLResponse carries a presigned image URL
type ImageURLResponse struct {
	URL       string `json:"url"`
	ImageKey  string `json:"image_key"`
	ExpiresAt int64  `json:"expires_at"`
}

// Event types published for inventory changes
const (
	EventSaleRecorded  = "sale.recorded"
	EventStockReceived = "stock.received"
)

// InventoryEvent is published after a sale or stock delivery is committed
type InventoryEvent struct {
	Type       string          `json:"type"`
	ProductID  int64           `json:"product_id"`
	ListID     int64           `json:"list_id"`
	Quantity   int             `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}
