package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/farmlink/marketplace/constant"
	"github.com/farmlink/marketplace/model"
	orderrepo "github.com/farmlink/marketplace/repository/order"
	paymentrepo "github.com/farmlink/marketplace/repository/payment"
	productrepo "github.com/farmlink/marketplace/repository/product"
	txrepo "github.com/farmlink/marketplace/repository/tx"
	"github.com/farmlink/marketplace/thirdparty/rabbitmq"
	cerr "github.com/farmlink/marketplace/utils/errors"
	"github.com/farmlink/marketplace/utils/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentApp reconciles gateway outcomes with local order state. The two
// delivery channels (synchronous client confirmation and asynchronous
// webhook) funnel into the same conditional transition, so duplicates and
// races settle on exactly one terminal outcome.
type PaymentApp interface {
	ConfirmPayment(ctx context.Context, req *model.ConfirmPaymentRequest) error
	HandleGatewayEvent(ctx context.Context, payload []byte) error
	ReleaseOrder(ctx context.Context, orderID uint64) error
}

type paymentAppImpl struct {
	txRepo      txrepo.TxRepository
	orderRepo   orderrepo.OrderRepository
	paymentRepo paymentrepo.PaymentRepository
	productRepo productrepo.ProductRepository
	publisher   rabbitmq.Publisher
}

func NewPaymentApp(
	txRepo txrepo.TxRepository,
	orderRepo orderrepo.OrderRepository,
	paymentRepo paymentrepo.PaymentRepository,
	productRepo productrepo.ProductRepository,
	publisher rabbitmq.Publisher,
) PaymentApp {
	return &paymentAppImpl{
		txRepo:      txRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

func (s *paymentAppImpl) ConfirmPayment(ctx context.Context, req *model.ConfirmPaymentRequest) error {
	var target constant.PaymentStatus
	switch req.Outcome {
	case constant.PaymentOutcomeSucceeded:
		target = constant.PaymentStatusPaid
	case constant.PaymentOutcomeFailed:
		target = constant.PaymentStatusFailed
	case constant.PaymentOutcomeCanceled:
		target = constant.PaymentStatusCanceled
	default:
		return cerr.SetCustomError(constant.ErrInvalidRequest)
	}

	return s.applyOutcome(ctx, req.GatewayReference, target)
}

// DecodeGatewayEvent parses a raw webhook body into the tagged event
// union. A body that is not the gateway envelope is an error; an envelope
// with an unrecognized type decodes to the unknown kind.
func DecodeGatewayEvent(payload []byte) (*model.GatewayEvent, error) {
	var raw model.GatewayWebhookPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, cerr.SetCustomError(constant.ErrInvalidRequest)
	}
	if raw.Type == "" || raw.Data.Object.ID == "" {
		return nil, cerr.SetCustomError(constant.ErrInvalidRequest)
	}

	event := &model.GatewayEvent{GatewayReference: raw.Data.Object.ID}
	switch raw.Type {
	case constant.GatewayEventSucceeded:
		event.Kind = model.GatewayEventKindSucceeded
	case constant.GatewayEventFailed:
		event.Kind = model.GatewayEventKindFailed
	case constant.GatewayEventCanceled:
		event.Kind = model.GatewayEventKindCanceled
	default:
		event.Kind = model.GatewayEventKindUnknown
	}
	return event, nil
}

func (s *paymentAppImpl) HandleGatewayEvent(ctx context.Context, payload []byte) error {
	event, err := DecodeGatewayEvent(payload)
	if err != nil {
		return err
	}

	switch event.Kind {
	case model.GatewayEventKindSucceeded:
		return s.applyOutcome(ctx, event.GatewayReference, constant.PaymentStatusPaid)
	case model.GatewayEventKindFailed:
		return s.applyOutcome(ctx, event.GatewayReference, constant.PaymentStatusFailed)
	case model.GatewayEventKindCanceled:
		return s.applyOutcome(ctx, event.GatewayReference, constant.PaymentStatusCanceled)
	default:
		// Ack and move on; the gateway must not keep retrying event types
		// we do not consume.
		logger.Info("[HandleGatewayEvent] ignoring unknown event kind", zap.String("reference", event.GatewayReference))
		return nil
	}
}

// applyOutcome performs the one-way pending -> terminal transition. The
// conditional UPDATE is the idempotency gate: zero affected rows on a
// known reference means the outcome was already absorbed, which is a
// success, not an error, and dispatches nothing.
func (s *paymentAppImpl) applyOutcome(ctx context.Context, reference string, target constant.PaymentStatus) error {
	payments, err := s.paymentRepo.GetByGatewayReference(ctx, reference)
	if err != nil {
		logger.Error("[applyOutcome] get payments", zap.String("reference", reference), zap.String("error", err.Error()))
		return cerr.SetCustomError(constant.ErrInternal)
	}
	if len(payments) == 0 {
		return cerr.SetCustomError(constant.ErrNotFound)
	}

	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[applyOutcome] begin tx", zap.String("error", err.Error()))
		return cerr.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	affected, err := s.paymentRepo.TransitionTx(ctx, tx, reference, target)
	if err != nil {
		logger.Error("[applyOutcome] transition payment", zap.String("reference", reference), zap.String("error", err.Error()))
		return cerr.SetCustomError(constant.ErrInternal)
	}
	if affected == 0 {
		// Duplicate or racing delivery of an already-terminal outcome.
		logger.Info("[applyOutcome] duplicate gateway event ignored",
			zap.String("reference", reference), zap.Int("target_status", int(target)))
		return nil
	}

	if target == constant.PaymentStatusPaid {
		for _, p := range payments {
			if err := s.orderRepo.MarkPaidTx(ctx, tx, p.OrderID); err != nil {
				logger.Error("[applyOutcome] confirm order", zap.Uint64("order_id", p.OrderID), zap.String("error", err.Error()))
				return cerr.SetCustomError(constant.ErrInternal)
			}
		}
	}
	// failed/canceled: the orders stay pending so the buyer can retry the
	// payment; stock is not restored here (release is a separate, explicit
	// operation).

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[applyOutcome] commit tx", zap.String("error", err.Error()))
		return cerr.SetCustomError(constant.ErrInternal)
	}
	committed = true

	if target == constant.PaymentStatusPaid {
		for _, p := range payments {
			s.notifyOrderPaid(ctx, p.OrderID)
		}
	}

	return nil
}

// notifyOrderPaid dispatches one buyer and one seller notification for a
// confirmed order. Dispatch failures are logged and never undo the
// payment state.
func (s *paymentAppImpl) notifyOrderPaid(ctx context.Context, orderID uint64) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		logger.Error("[notifyOrderPaid] get order", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return
	}
	if order == nil {
		logger.Error("[notifyOrderPaid] order missing", zap.Uint64("order_id", orderID))
		return
	}
	lines, err := s.orderRepo.GetOrderLines(ctx, orderID)
	if err != nil {
		logger.Error("[notifyOrderPaid] get order lines", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		lines = nil
	}

	buyerMsg := rabbitmq.OrderNotificationMessage{
		EventID: uuid.NewString(),
		UserID:  order.BuyerID,
		Role:    "buyer",
		OrderID: orderID,
		Title:   "Payment confirmed",
		Message: fmt.Sprintf("Your payment for order %d was confirmed", orderID),
		Total:   order.Total,
	}
	if err := s.publisher.PublishOrderNotification(buyerMsg); err != nil {
		logger.Error("[notifyOrderPaid] publish buyer notification", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
	}

	sellerMsg := rabbitmq.OrderNotificationMessage{
		EventID: uuid.NewString(),
		UserID:  order.SellerID,
		Role:    "seller",
		OrderID: orderID,
		Title:   "New paid order",
		Message: fmt.Sprintf("Order %d was paid and is ready to prepare", orderID),
		Total:   order.Total,
		Lines:   lines,
	}
	if err := s.publisher.PublishOrderNotification(sellerMsg); err != nil {
		logger.Error("[notifyOrderPaid] publish seller notification", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
	}
}

// ReleaseOrder is the explicit stock-restoration operation for orders
// whose payment never arrived. It cancels a still-pending order, puts its
// quantities back on the shelf and closes the pending payment revision.
// Calling it again, or calling it for a confirmed order, is a no-op.
func (s *paymentAppImpl) ReleaseOrder(ctx context.Context, orderID uint64) error {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[ReleaseOrder] begin tx", zap.String("error", err.Error()))
		return cerr.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	order, err := s.orderRepo.GetOrderTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[ReleaseOrder] get order", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return cerr.SetCustomError(constant.ErrInternal)
	}
	if order == nil {
		return cerr.SetCustomError(constant.ErrNotFound)
	}
	if order.PaymentStatus == constant.PaymentStatusPaid {
		return nil
	}

	affected, err := s.orderRepo.UpdateStatusTx(ctx, tx, orderID, constant.OrderStatusPending, constant.OrderStatusCanceled)
	if err != nil {
		logger.Error("[ReleaseOrder] cancel order", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return cerr.SetCustomError(constant.ErrInternal)
	}
	if affected == 0 {
		// Already released or confirmed elsewhere.
		return nil
	}

	lines, err := s.orderRepo.GetOrderLinesTx(ctx, tx, orderID)
	if err != nil {
		logger.Error("[ReleaseOrder] get order lines", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return cerr.SetCustomError(constant.ErrInternal)
	}
	for _, line := range lines {
		if err := s.productRepo.RestoreStockTx(ctx, tx, line.ProductID, int64(line.Quantity)); err != nil {
			logger.Error("[ReleaseOrder] restore stock", zap.Uint64("product_id", line.ProductID), zap.String("error", err.Error()))
			return cerr.SetCustomError(constant.ErrInternal)
		}
	}

	if _, err := s.paymentRepo.TransitionByOrderTx(ctx, tx, orderID, constant.PaymentStatusCanceled); err != nil {
		logger.Error("[ReleaseOrder] cancel payment", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
		return cerr.SetCustomError(constant.ErrInternal)
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[ReleaseOrder] commit tx", zap.String("error", err.Error()))
		return cerr.SetCustomError(constant.ErrInternal)
	}
	committed = true

	logger.Info("[ReleaseOrder] order released", zap.Uint64("order_id", orderID))
	return nil
}
