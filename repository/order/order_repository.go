package order

import (
	"context"
	"database/sql"
	"errors"

	"github.com/farmlink/marketplace/constant"
	"github.com/farmlink/marketplace/model"
	"github.com/jmoiron/sqlx"
)

type SQL struct {
	conn *sqlx.DB
}

type OrderRepository interface {
	InsertOrderTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertOrderTxItem) (uint64, error)
	InsertOrderLinesTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, lines []model.OrderLine) error
	GetOrder(ctx context.Context, orderID uint64) (*model.OrderDetail, error)
	GetOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.OrderDetail, error)
	GetOrderLines(ctx context.Context, orderID uint64) ([]model.OrderLine, error)
	GetOrderLinesTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) ([]model.OrderLine, error)
	MarkPaidTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, from, to constant.OrderStatus) (int64, error)
	DeleteOrderLinesTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error
	DeleteOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error
}

func NewOrderRepository(conn *sqlx.DB) OrderRepository {
	return &SQL{conn: conn}
}

func (r *SQL) InsertOrderTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertOrderTxItem) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO `order` (buyer_id, seller_id, delivery_address, notes, payment_method, status, payment_status, total) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		req.BuyerID, req.SellerID, req.DeliveryAddress, req.Notes, req.PaymentMethod, req.Status, req.PaymentStatus, req.Total)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *SQL) InsertOrderLinesTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, lines []model.OrderLine) error {
	q := "INSERT INTO order_line (order_id, product_id, quantity, unit_price, line_total) VALUES (?, ?, ?, ?, ?)"
	for _, line := range lines {
		if _, err := tx.ExecContext(ctx, q, orderID, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal); err != nil {
			return err
		}
	}
	return nil
}

const getOrderQuery = "SELECT id, buyer_id, seller_id, status, payment_status, payment_method, total FROM `order` WHERE id = ?"

func (r *SQL) GetOrder(ctx context.Context, orderID uint64) (*model.OrderDetail, error) {
	var detail model.OrderDetail
	if err := r.conn.QueryRowxContext(ctx, getOrderQuery, orderID).StructScan(&detail); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}

func (r *SQL) GetOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) (*model.OrderDetail, error) {
	var detail model.OrderDetail
	if err := tx.QueryRowxContext(ctx, getOrderQuery+" FOR UPDATE", orderID).StructScan(&detail); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}

const getOrderLinesQuery = "SELECT order_id, product_id, quantity, unit_price, line_total FROM order_line WHERE order_id = ?"

func (r *SQL) GetOrderLines(ctx context.Context, orderID uint64) ([]model.OrderLine, error) {
	rows, err := r.conn.QueryxContext(ctx, getOrderLinesQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderLines(rows)
}

func (r *SQL) GetOrderLinesTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) ([]model.OrderLine, error) {
	rows, err := tx.QueryxContext(ctx, getOrderLinesQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrderLines(rows)
}

func scanOrderLines(rows *sqlx.Rows) ([]model.OrderLine, error) {
	lines := make([]model.OrderLine, 0)
	for rows.Next() {
		var line model.OrderLine
		if err := rows.StructScan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// MarkPaidTx confirms the order once its payment reached paid. The move
// is conditional on the order still being pending, so a confirmation
// racing a release never resurrects a canceled order.
func (r *SQL) MarkPaidTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	_, err := tx.ExecContext(ctx, "UPDATE `order` SET status = ?, payment_status = ? WHERE id = ? AND status = ?",
		constant.OrderStatusConfirmed, constant.PaymentStatusPaid, orderID, constant.OrderStatusPending)
	return err
}

// UpdateStatusTx transitions status only from the expected current value
// and reports how many rows actually moved.
func (r *SQL) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, from, to constant.OrderStatus) (int64, error) {
	res, err := tx.ExecContext(ctx, "UPDATE `order` SET status = ? WHERE id = ? AND status = ?", to, orderID, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQL) DeleteOrderLinesTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM order_line WHERE order_id = ?", orderID)
	return err
}

func (r *SQL) DeleteOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM `order` WHERE id = ?", orderID)
	return err
}
