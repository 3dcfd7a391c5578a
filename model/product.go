package model

// ProductDetail is the catalog view the checkout core consumes. Price is
// in minor currency units.
type ProductDetail struct {
	ID        uint64 `db:"id" json:"id"`
	SellerID  uint64 `db:"seller_id" json:"seller_id"`
	Name      string `db:"name" json:"name"`
	Price     int64  `db:"price" json:"price"`
	Stock     int64  `db:"stock" json:"stock"`
	Available bool   `db:"available" json:"available"`
}
