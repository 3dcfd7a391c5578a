package payment

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

type PaymentRepository interface {
	InsertPaymentTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertPaymentTxItem) (uint64, error)
	SetGatewayReference(ctx context.Context, orderIDs []uint64, reference string) error
	GetByGatewayReference(ctx context.Context, reference string) ([]model.Payment, error)
	GetByOrderID(ctx context.Context, orderID uint64) (*model.Payment, error)
	TransitionTx(ctx context.Context, tx *sqlx.Tx, reference string, to constant.PaymentStatus) (int64, error)
	TransitionByOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, to constant.PaymentStatus) (int64, error)
	DeletePaymentTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error
}

func NewPaymentRepository(conn *sqlx.DB) PaymentRepository {
	return &SQL{conn: conn}
}

func (r *SQL) InsertPaymentTx(ctx context.Context, tx *sqlx.Tx, req *model.InsertPaymentTxItem) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO payment (order_id, buyer_id, amount, method, gateway, gateway_reference, status) VALUES (?, ?, ?, ?, ?, '', ?)",
		req.OrderID, req.BuyerID, req.Amount, req.Method, req.Gateway, constant.PaymentStatusPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetGatewayReference attaches (or replaces) the gateway session reference
// on every still-pending payment of a checkout. Only the latest reference
// is authoritative; terminal payments are never touched.
func (r *SQL) SetGatewayReference(ctx context.Context, orderIDs []uint64, reference string) error {
	if len(orderIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In("UPDATE payment SET gateway_reference = ? WHERE order_id IN (?) AND status = ?",
		reference, orderIDs, constant.PaymentStatusPending)
	if err != nil {
		return err
	}
	_, err = r.conn.ExecContext(ctx, r.conn.Rebind(query), args...)
	return err
}

const getPaymentColumns = "SELECT id, order_id, buyer_id, amount, method, gateway, gateway_reference, status FROM payment"

func (r *SQL) GetByGatewayReference(ctx context.Context, reference string) ([]model.Payment, error) {
	rows, err := r.conn.QueryxContext(ctx, getPaymentColumns+" WHERE gateway_reference = ?", reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.StructScan(&p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// GetByOrderID returns the latest payment revision for the order. Earlier
// revisions (retried gateway sessions) stay in their terminal states.
func (r *SQL) GetByOrderID(ctx context.Context, orderID uint64) (*model.Payment, error) {
	var p model.Payment
	if err := r.conn.QueryRowxContext(ctx, getPaymentColumns+" WHERE order_id = ? ORDER BY id DESC LIMIT 1", orderID).StructScan(&p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// TransitionTx is the reconciler's idempotency gate: the status moves to a
// terminal value only while it is still pending, in a single conditional
// UPDATE. Zero affected rows means the event already happened (or the
// reference is unknown) and the caller must not apply side effects again.
func (r *SQL) TransitionTx(ctx context.Context, tx *sqlx.Tx, reference string, to constant.PaymentStatus) (int64, error) {
	res, err := tx.ExecContext(ctx, "UPDATE payment SET status = ? WHERE gateway_reference = ? AND status = ?",
		to, reference, constant.PaymentStatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQL) TransitionByOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, to constant.PaymentStatus) (int64, error) {
	res, err := tx.ExecContext(ctx, "UPDATE payment SET status = ? WHERE order_id = ? AND status = ?",
		to, orderID, constant.PaymentStatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQL) DeletePaymentTx(ctx context.Context, tx *sqlx.Tx, orderID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM payment WHERE order_id = ?", orderID)
	return err
}
