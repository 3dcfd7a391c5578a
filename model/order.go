package model

import (
	"github.com/farmlink/marketplace/constant"
)

type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	Notes           string `json:"notes"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=cash card"`
}

type PaymentSession struct {
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret,omitempty"`
}

type CheckoutResponse struct {
	OrderIDs []uint64       `json:"order_ids"`
	Payment  PaymentSession `json:"payment"`
}

type InsertOrderTxItem struct {
	BuyerID         uint64
	SellerID        uint64
	DeliveryAddress string
	Notes           string
	PaymentMethod   constant.PaymentMethod
	Status          constant.OrderStatus
	PaymentStatus   constant.PaymentStatus
	Total           int64
}

// OrderLine is the immutable historical record of one ordered product.
type OrderLine struct {
	OrderID   uint64 `db:"order_id" json:"order_id"`
	ProductID uint64 `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
	UnitPrice int64  `db:"unit_price" json:"unit_price"`
	LineTotal int64  `db:"line_total" json:"line_total"`
}

type OrderDetail struct {
	ID            uint64                 `db:"id" json:"id"`
	BuyerID       uint64                 `db:"buyer_id" json:"buyer_id"`
	SellerID      uint64                 `db:"seller_id" json:"seller_id"`
	Status        constant.OrderStatus   `db:"status" json:"status"`
	PaymentStatus constant.PaymentStatus `db:"payment_status" json:"payment_status"`
	PaymentMethod constant.PaymentMethod `db:"payment_method" json:"payment_method"`
	Total         int64                  `db:"total" json:"total"`
}
