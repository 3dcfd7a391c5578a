package product

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/farmlink/marketplace/constant"
	"github.com/farmlink/marketplace/model"
	cerr "github.com/farmlink/marketplace/utils/errors"
)

type SQL struct {
	conn *sqlx.DB
}

// ProductRepository is the catalog interface consumed by the checkout
// core: live reads for validation, locked reads and conditional stock
// updates for conversion.
type ProductRepository interface {
	GetByID(ctx context.Context, id uint64) (*model.ProductDetail, error)
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, ids []uint64) (map[uint64]model.ProductDetail, error)
	DecrementStockTx(ctx context.Context, tx *sqlx.Tx, productID uint64, qty int64) error
	RestoreStockTx(ctx context.Context, tx *sqlx.Tx, productID uint64, qty int64) error
}

func NewProductRepository(conn *sqlx.DB) ProductRepository {
	return &SQL{conn: conn}
}

const getProductQuery = "SELECT id, seller_id, name, price, stock, available FROM product WHERE id = ?"

// GetByID returns nil, nil when the product no longer exists.
func (s *SQL) GetByID(ctx context.Context, id uint64) (*model.ProductDetail, error) {
	var detail model.ProductDetail
	if err := s.conn.QueryRowxContext(ctx, getProductQuery, id).StructScan(&detail); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}

// GetForUpdateTx locks the product rows for the given ids. Rows are locked
// in ascending id order so concurrent checkouts over overlapping products
// cannot deadlock each other.
func (s *SQL) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, ids []uint64) (map[uint64]model.ProductDetail, error) {
	if len(ids) == 0 {
		return map[uint64]model.ProductDetail{}, nil
	}

	ordered := make([]uint64, len(ids))
	copy(ordered, ids)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	query, args, err := sqlx.In("SELECT id, seller_id, name, price, stock, available FROM product WHERE id IN (?) ORDER BY id FOR UPDATE", ordered)
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryxContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uint64]model.ProductDetail, len(ordered))
	for rows.Next() {
		var detail model.ProductDetail
		if err := rows.StructScan(&detail); err != nil {
			return nil, err
		}
		result[detail.ID] = detail
	}
	return result, rows.Err()
}

// DecrementStockTx makes the decrement itself the serialization point:
// the conditional WHERE keeps stock from ever going negative even if two
// transactions raced to this row.
func (s *SQL) DecrementStockTx(ctx context.Context, tx *sqlx.Tx, productID uint64, qty int64) error {
	res, err := tx.ExecContext(ctx, "UPDATE product SET stock = stock - ? WHERE id = ? AND stock >= ?", qty, productID, qty)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return cerr.SetCustomError(constant.ErrInsufficientStock)
	}
	return nil
}

func (s *SQL) RestoreStockTx(ctx context.Context, tx *sqlx.Tx, productID uint64, qty int64) error {
	_, err := tx.ExecContext(ctx, "UPDATE product SET stock = stock + ? WHERE id = ?", qty, productID)
	return err
}
