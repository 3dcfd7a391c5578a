package payment_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/farmlink/marketplace/constant"
	"github.com/farmlink/marketplace/model"
	"github.com/farmlink/marketplace/repository/payment"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newPaymentDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestInsertPaymentTx(t *testing.T) {
	sqldb, mock := newPaymentDB(t)
	repo := payment.NewPaymentRepository(sqldb)

	mock.ExpectBegin()
	tx, err := sqldb.Beginx()
	assert.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payment (order_id, buyer_id, amount, method, gateway, gateway_reference, status) VALUES (?, ?, ?, ?, ?, '', ?)")).
		WithArgs(uint64(100), uint64(1), int64(7500), constant.PaymentMethodCard, constant.GatewayNameDefault, constant.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(200, 1))

	id, err := repo.InsertPaymentTx(context.Background(), tx, &model.InsertPaymentTxItem{
		OrderID: 100,
		BuyerID: 1,
		Amount:  7500,
		Method:  constant.PaymentMethodCard,
		Gateway: constant.GatewayNameDefault,
	})
	assert.NoError(t, err)
	assert.Equal(t, uint64(200), id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGatewayReference_OnlyPendingRows(t *testing.T) {
	sqldb, mock := newPaymentDB(t)
	repo := payment.NewPaymentRepository(sqldb)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment SET gateway_reference = ? WHERE order_id IN (?, ?) AND status = ?")).
		WithArgs("pi_1", uint64(100), uint64(101), constant.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.SetGatewayReference(context.Background(), []uint64{100, 101}, "pi_1")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByGatewayReference(t *testing.T) {
	sqldb, mock := newPaymentDB(t)
	repo := payment.NewPaymentRepository(sqldb)

	rows := sqlmock.NewRows([]string{"id", "order_id", "buyer_id", "amount", "method", "gateway", "gateway_reference", "status"}).
		AddRow(200, 100, 1, 5000, constant.PaymentMethodCard, constant.GatewayNameDefault, "pi_1", constant.PaymentStatusPending).
		AddRow(201, 101, 1, 4000, constant.PaymentMethodCard, constant.GatewayNameDefault, "pi_1", constant.PaymentStatusPending)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, order_id, buyer_id, amount, method, gateway, gateway_reference, status FROM payment WHERE gateway_reference = ?")).
		WithArgs("pi_1").WillReturnRows(rows)

	got, err := repo.GetByGatewayReference(context.Background(), "pi_1")
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, uint64(100), got[0].OrderID)
	assert.Equal(t, uint64(101), got[1].OrderID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByOrderID_LatestRevisionWins(t *testing.T) {
	sqldb, mock := newPaymentDB(t)
	repo := payment.NewPaymentRepository(sqldb)

	rows := sqlmock.NewRows([]string{"id", "order_id", "buyer_id", "amount", "method", "gateway", "gateway_reference", "status"}).
		AddRow(201, 100, 1, 5000, constant.PaymentMethodCard, constant.GatewayNameDefault, "pi_2", constant.PaymentStatusPending)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, order_id, buyer_id, amount, method, gateway, gateway_reference, status FROM payment WHERE order_id = ? ORDER BY id DESC LIMIT 1")).
		WithArgs(uint64(100)).WillReturnRows(rows)

	got, err := repo.GetByOrderID(context.Background(), 100)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "pi_2", got.GatewayReference)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionTx_MovesPendingOnly(t *testing.T) {
	sqldb, mock := newPaymentDB(t)
	repo := payment.NewPaymentRepository(sqldb)

	mock.ExpectBegin()
	tx, err := sqldb.Beginx()
	assert.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment SET status = ? WHERE gateway_reference = ? AND status = ?")).
		WithArgs(constant.PaymentStatusPaid, "pi_1", constant.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 2))

	affected, err := repo.TransitionTx(context.Background(), tx, "pi_1", constant.PaymentStatusPaid)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionTx_DuplicateDeliveryAffectsNothing(t *testing.T) {
	sqldb, mock := newPaymentDB(t)
	repo := payment.NewPaymentRepository(sqldb)

	mock.ExpectBegin()
	tx, err := sqldb.Beginx()
	assert.NoError(t, err)

	// Payments already terminal: the same event delivered twice finds no
	// pending row the second time.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment SET status = ? WHERE gateway_reference = ? AND status = ?")).
		WithArgs(constant.PaymentStatusPaid, "pi_1", constant.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.TransitionTx(context.Background(), tx, "pi_1", constant.PaymentStatusPaid)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	assert.NoError(t, mock.ExpectationsWereMet())
}
