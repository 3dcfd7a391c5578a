package model

// CartItem is one line of a buyer's cart as stored in Redis.
// PriceSnapshot is the catalog price (minor units) observed when the item
// was added; checkout always re-prices against the live catalog.
type CartItem struct {
	ProductID     uint64 `json:"product_id"`
	Quantity      int    `json:"quantity"`
	PriceSnapshot int64  `json:"price_snapshot"`
}

type AddCartItemRequest struct {
	ProductID uint64 `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=100"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0,lte=100"`
}

type CartResponse struct {
	Items []CartItem `json:"items"`
}

// ValidatedLine is the ephemeral, re-priced view of one cart line. Never
// persisted; recomputed on every validation pass.
type ValidatedLine struct {
	ProductID uint64 `json:"product_id"`
	SellerID  uint64 `json:"seller_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
	Available bool   `json:"available"`
}

type CartIssue struct {
	ProductID uint64 `json:"product_id"`
	Reason    string `json:"reason"`
}

type CartValidation struct {
	Valid    bool            `json:"valid"`
	Errors   []CartIssue     `json:"errors"`
	Warnings []CartIssue     `json:"warnings"`
	Lines    []ValidatedLine `json:"lines"`
}
