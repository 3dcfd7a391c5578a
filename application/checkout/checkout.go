package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	cartapp "github.com/farmlink/marketplace/application/cart"
	"github.com/farmlink/marketplace/cmd/config"
	"github.com/farmlink/marketplace/constant"
	"github.com/farmlink/marketplace/model"
	cartrepo "github.com/farmlink/marketplace/repository/cart"
	orderrepo "github.com/farmlink/marketplace/repository/order"
	paymentrepo "github.com/farmlink/marketplace/repository/payment"
	productrepo "github.com/farmlink/marketplace/repository/product"
	txrepo "github.com/farmlink/marketplace/repository/tx"
	"github.com/farmlink/marketplace/thirdparty/gateway"
	"github.com/farmlink/marketplace/thirdparty/rabbitmq"
	cerr "github.com/farmlink/marketplace/utils/errors"
	"github.com/farmlink/marketplace/utils/logger"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// CheckoutApp turns a validated cart into durable per-seller orders and
// opens the payment session. Conversion is all-or-nothing across sellers.
type CheckoutApp interface {
	// Checkout converts the buyer's cart. When validation fails the
	// returned CartValidation carries the failing lines for the client.
	Checkout(ctx context.Context, buyerID uint64, req *model.CheckoutRequest, idempotencyToken string) (*model.CheckoutResponse, *model.CartValidation, error)
	RetryPayment(ctx context.Context, buyerID, orderID uint64) (*model.PaymentSession, error)
}

type checkoutAppImpl struct {
	config      *config.Config
	txRepo      txrepo.TxRepository
	cartApp     cartapp.CartApp
	cartRepo    cartrepo.CartRepository
	productRepo productrepo.ProductRepository
	orderRepo   orderrepo.OrderRepository
	paymentRepo paymentrepo.PaymentRepository
	gateway     gateway.Client
	publisher   rabbitmq.Publisher
}

func NewCheckoutApp(
	config *config.Config,
	txRepo txrepo.TxRepository,
	cartApp cartapp.CartApp,
	cartRepo cartrepo.CartRepository,
	productRepo productrepo.ProductRepository,
	orderRepo orderrepo.OrderRepository,
	paymentRepo paymentrepo.PaymentRepository,
	gatewayClient gateway.Client,
	publisher rabbitmq.Publisher,
) CheckoutApp {
	return &checkoutAppImpl{
		config:      config,
		txRepo:      txRepo,
		cartApp:     cartApp,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		gateway:     gatewayClient,
		publisher:   publisher,
	}
}

func (s *checkoutAppImpl) Checkout(ctx context.Context, buyerID uint64, req *model.CheckoutRequest, idempotencyToken string) (*model.CheckoutResponse, *model.CartValidation, error) {
	// Replay guard: a client-side retry with the same token gets the
	// original response back instead of a second conversion.
	if idempotencyToken != "" {
		cached, err := s.cartRepo.GetCheckoutResult(ctx, buyerID, idempotencyToken)
		if err != nil {
			logger.Error("[Checkout] idempotency lookup", zap.String("error", err.Error()))
		} else if cached != "" {
			var resp model.CheckoutResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				logger.Info("[Checkout] replayed idempotent checkout", zap.Uint64("buyer_id", buyerID), zap.String("token", idempotencyToken))
				return &resp, nil, nil
			}
		}
	}

	validation, err := s.cartApp.ValidateCart(ctx, buyerID)
	if err != nil {
		return nil, nil, err
	}
	if !validation.Valid {
		return nil, validation, cerr.SetCustomError(classifyValidation(validation))
	}

	method := constant.PaymentMethod(req.PaymentMethod)

	orderIDs, total, err := s.convert(ctx, buyerID, req, method, validation.Lines)
	if err != nil && isTxConflict(err) {
		// One internal retry closes transient deadlocks between concurrent
		// checkouts; a second conflict surfaces as a stock problem.
		logger.Warn("[Checkout] transaction conflict, retrying once", zap.Uint64("buyer_id", buyerID))
		orderIDs, total, err = s.convert(ctx, buyerID, req, method, validation.Lines)
		if err != nil && isTxConflict(err) {
			err = cerr.SetCustomError(constant.ErrInsufficientStock)
		}
	}
	if err != nil {
		return nil, nil, err
	}

	session, err := s.initiatePayment(ctx, buyerID, orderIDs, total, method)
	if err != nil {
		// A card checkout without a payment session must not survive:
		// undo the orders and put the stock back.
		s.compensate(ctx, orderIDs)
		return nil, nil, err
	}

	// Remove only the converted lines; anything added mid-checkout stays.
	converted := make([]uint64, 0, len(validation.Lines))
	for _, line := range validation.Lines {
		converted = append(converted, line.ProductID)
	}
	if err := s.cartRepo.RemoveItems(ctx, buyerID, converted); err != nil {
		logger.Error("[Checkout] remove converted cart items", zap.String("error", err.Error()))
	}

	if s.config.Order.ReleaseEnabled {
		expiresAt := time.Now().Add(s.config.Order.OrderExpiration)
		for _, orderID := range orderIDs {
			msg := rabbitmq.OrderExpirationMessage{OrderID: orderID, BuyerID: buyerID, ExpiresAt: expiresAt}
			if err := s.publisher.PublishOrderExpiration(msg); err != nil {
				logger.Error("[Checkout] publish order expiration", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
			}
		}
	}

	resp := &model.CheckoutResponse{OrderIDs: orderIDs, Payment: *session}

	if idempotencyToken != "" {
		payload, err := json.Marshal(resp)
		if err == nil {
			stored, err := s.cartRepo.SetCheckoutResult(ctx, buyerID, idempotencyToken, string(payload), s.config.Cart.IdempotencyTTL)
			if err != nil {
				logger.Error("[Checkout] store idempotency result", zap.String("error", err.Error()))
			} else if !stored {
				// A concurrent checkout with the same token won the SetNX
				// race and both conversions committed.
				logger.Warn("[Checkout] idempotency token was already claimed",
					zap.Uint64("buyer_id", buyerID), zap.String("token", idempotencyToken))
			}
		}
	}

	return resp, nil, nil
}

// convert runs the conversion transaction: every product row of the cart
// is locked (ascending id), stock is re-verified and decremented, and one
// order per seller plus its lines and a pending payment are inserted. Any
// failure rolls the whole thing back, partial multi-seller orders are
// never committed.
func (s *checkoutAppImpl) convert(ctx context.Context, buyerID uint64, req *model.CheckoutRequest, method constant.PaymentMethod, lines []model.ValidatedLine) ([]uint64, int64, error) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[Checkout] begin tx", zap.String("error", err.Error()))
		return nil, 0, cerr.SetCustomError(constant.ErrInternal)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	ids := make([]uint64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	locked, err := s.productRepo.GetForUpdateTx(ctx, tx, ids)
	if err != nil {
		logger.Error("[Checkout] lock products", zap.String("error", err.Error()))
		return nil, 0, wrapTxErr(err)
	}

	// Re-price and re-verify against the locked rows; the validator's
	// answer may be stale by the time we get here.
	repriced := make([]model.ValidatedLine, 0, len(lines))
	for _, line := range lines {
		product, ok := locked[line.ProductID]
		if !ok {
			return nil, 0, cerr.SetCustomError(constant.ErrValidationStale)
		}
		if !product.Available {
			return nil, 0, cerr.SetCustomError(constant.ErrProductUnavailable)
		}
		if product.Stock < int64(line.Quantity) {
			return nil, 0, cerr.SetCustomError(constant.ErrInsufficientStock)
		}
		repriced = append(repriced, model.ValidatedLine{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			LineTotal: int64(line.Quantity) * product.Price,
			Available: true,
		})
	}

	for _, line := range repriced {
		if err := s.productRepo.DecrementStockTx(ctx, tx, line.ProductID, int64(line.Quantity)); err != nil {
			var ce cerr.CustomError
			if errors.As(err, &ce) {
				return nil, 0, err
			}
			logger.Error("[Checkout] decrement stock", zap.Uint64("product_id", line.ProductID), zap.String("error", err.Error()))
			return nil, 0, wrapTxErr(err)
		}
	}

	bySeller := partitionBySeller(repriced)

	orderIDs := make([]uint64, 0, len(bySeller))
	var grandTotal int64
	for _, partition := range bySeller {
		var total int64
		for _, line := range partition.lines {
			total += line.LineTotal
		}

		orderID, err := s.orderRepo.InsertOrderTx(ctx, tx, &model.InsertOrderTxItem{
			BuyerID:         buyerID,
			SellerID:        partition.sellerID,
			DeliveryAddress: req.DeliveryAddress,
			Notes:           req.Notes,
			PaymentMethod:   method,
			Status:          constant.OrderStatusPending,
			PaymentStatus:   constant.PaymentStatusPending,
			Total:           total,
		})
		if err != nil {
			logger.Error("[Checkout] insert order", zap.String("error", err.Error()))
			return nil, 0, wrapTxErr(err)
		}

		orderLines := make([]model.OrderLine, 0, len(partition.lines))
		for _, line := range partition.lines {
			orderLines = append(orderLines, model.OrderLine{
				OrderID:   orderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: line.LineTotal,
			})
		}
		if err := s.orderRepo.InsertOrderLinesTx(ctx, tx, orderID, orderLines); err != nil {
			logger.Error("[Checkout] insert order lines", zap.String("error", err.Error()))
			return nil, 0, wrapTxErr(err)
		}

		gatewayName := ""
		if method == constant.PaymentMethodCard {
			gatewayName = constant.GatewayNameDefault
		}
		if _, err := s.paymentRepo.InsertPaymentTx(ctx, tx, &model.InsertPaymentTxItem{
			OrderID: orderID,
			BuyerID: buyerID,
			Amount:  total,
			Method:  method,
			Gateway: gatewayName,
		}); err != nil {
			logger.Error("[Checkout] insert payment", zap.String("error", err.Error()))
			return nil, 0, wrapTxErr(err)
		}

		orderIDs = append(orderIDs, orderID)
		grandTotal += total
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[Checkout] commit tx", zap.String("error", err.Error()))
		return nil, 0, wrapTxErr(err)
	}
	committed = true

	return orderIDs, grandTotal, nil
}

// initiatePayment happens only after the conversion committed, so a slow
// gateway never holds product row locks.
func (s *checkoutAppImpl) initiatePayment(ctx context.Context, buyerID uint64, orderIDs []uint64, total int64, method constant.PaymentMethod) (*model.PaymentSession, error) {
	if method == constant.PaymentMethodCash {
		// Awaiting manual confirmation by the seller.
		return &model.PaymentSession{Status: "pending"}, nil
	}

	refs := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		refs = append(refs, strconv.FormatUint(id, 10))
	}

	intent, err := s.gateway.CreateIntent(ctx, &gateway.CreateIntentRequest{
		Amount:   total,
		Currency: s.config.Gateway.Currency,
		Metadata: map[string]string{
			"order_ids": strings.Join(refs, ","),
			"buyer_id":  strconv.FormatUint(buyerID, 10),
		},
	})
	if err != nil {
		logger.Error("[Checkout] create payment intent", zap.String("error", err.Error()))
		return nil, cerr.SetCustomError(constant.ErrGateway)
	}

	if err := s.paymentRepo.SetGatewayReference(ctx, orderIDs, intent.ID); err != nil {
		// Without the reference stored the webhook could never reconcile
		// this checkout, so it cannot stand.
		logger.Error("[Checkout] store gateway reference", zap.String("reference", intent.ID), zap.String("error", err.Error()))
		return nil, cerr.SetCustomError(constant.ErrInternal)
	}

	return &model.PaymentSession{Status: "pending", ClientSecret: intent.ClientSecret}, nil
}

// compensate undoes a committed conversion whose payment session could not
// be opened: stock back, payment/lines/order rows gone.
func (s *checkoutAppImpl) compensate(ctx context.Context, orderIDs []uint64) {
	tx, err := s.txRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("[Checkout] compensate begin tx", zap.String("error", err.Error()))
		return
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.txRepo.RollbackTx(tx)
		}
	}()

	for _, orderID := range orderIDs {
		lines, err := s.orderRepo.GetOrderLinesTx(ctx, tx, orderID)
		if err != nil {
			logger.Error("[Checkout] compensate read lines", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
			return
		}
		for _, line := range lines {
			if err := s.productRepo.RestoreStockTx(ctx, tx, line.ProductID, int64(line.Quantity)); err != nil {
				logger.Error("[Checkout] compensate restore stock", zap.Uint64("product_id", line.ProductID), zap.String("error", err.Error()))
				return
			}
		}
		if err := s.paymentRepo.DeletePaymentTx(ctx, tx, orderID); err != nil {
			logger.Error("[Checkout] compensate delete payment", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
			return
		}
		if err := s.orderRepo.DeleteOrderLinesTx(ctx, tx, orderID); err != nil {
			logger.Error("[Checkout] compensate delete lines", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
			return
		}
		if err := s.orderRepo.DeleteOrderTx(ctx, tx, orderID); err != nil {
			logger.Error("[Checkout] compensate delete order", zap.Uint64("order_id", orderID), zap.String("error", err.Error()))
			return
		}
	}

	if err := s.txRepo.CommitTx(tx); err != nil {
		logger.Error("[Checkout] compensate commit", zap.String("error", err.Error()))
		return
	}
	committed = true
	logger.Info("[Checkout] checkout compensated after gateway failure", zap.Any("order_ids", orderIDs))
}

// RetryPayment opens a fresh gateway session for an order whose payment
// never reached paid. The previous payment revision keeps its terminal
// state; only the newest gateway reference is authoritative.
func (s *checkoutAppImpl) RetryPayment(ctx context.Context, buyerID, orderID uint64) (*model.PaymentSession, error) {
	order, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		logger.Error("[RetryPayment] get order", zap.String("error", err.Error()))
		return nil, cerr.SetCustomError(constant.ErrInternal)
	}
	if order == nil || order.BuyerID != buyerID {
		return nil, cerr.SetCustomError(constant.ErrNotFound)
	}
	if order.Status != constant.OrderStatusPending || order.PaymentStatus == constant.PaymentStatusPaid {
		return nil, cerr.SetCustomError(constant.ErrInvalidOrderStatus)
	}
	if order.PaymentMethod != constant.PaymentMethodCard {
		return nil, cerr.SetCustomError(constant.ErrInvalidRequest)
	}

	payment, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		logger.Error("[RetryPayment] get payment", zap.String("error", err.Error()))
		return nil, cerr.SetCustomError(constant.ErrInternal)
	}
	if payment == nil {
		return nil, cerr.SetCustomError(constant.ErrNotFound)
	}

	// Terminal revisions stay terminal; start a new pending one.
	if payment.Status != constant.PaymentStatusPending {
		tx, err := s.txRepo.BeginTx(ctx)
		if err != nil {
			logger.Error("[RetryPayment] begin tx", zap.String("error", err.Error()))
			return nil, cerr.SetCustomError(constant.ErrInternal)
		}
		if _, err := s.paymentRepo.InsertPaymentTx(ctx, tx, &model.InsertPaymentTxItem{
			OrderID: orderID,
			BuyerID: buyerID,
			Amount:  order.Total,
			Method:  constant.PaymentMethodCard,
			Gateway: constant.GatewayNameDefault,
		}); err != nil {
			_ = s.txRepo.RollbackTx(tx)
			logger.Error("[RetryPayment] insert payment revision", zap.String("error", err.Error()))
			return nil, cerr.SetCustomError(constant.ErrInternal)
		}
		if err := s.txRepo.CommitTx(tx); err != nil {
			logger.Error("[RetryPayment] commit tx", zap.String("error", err.Error()))
			return nil, cerr.SetCustomError(constant.ErrInternal)
		}
	}

	intent, err := s.gateway.CreateIntent(ctx, &gateway.CreateIntentRequest{
		Amount:   order.Total,
		Currency: s.config.Gateway.Currency,
		Metadata: map[string]string{
			"order_ids": strconv.FormatUint(orderID, 10),
			"buyer_id":  strconv.FormatUint(buyerID, 10),
		},
	})
	if err != nil {
		logger.Error("[RetryPayment] create payment intent", zap.String("error", err.Error()))
		return nil, cerr.SetCustomError(constant.ErrGateway)
	}

	if err := s.paymentRepo.SetGatewayReference(ctx, []uint64{orderID}, intent.ID); err != nil {
		logger.Error("[RetryPayment] store gateway reference", zap.String("error", err.Error()))
		return nil, cerr.SetCustomError(constant.ErrInternal)
	}

	return &model.PaymentSession{Status: "pending", ClientSecret: intent.ClientSecret}, nil
}

type sellerPartition struct {
	sellerID uint64
	lines    []model.ValidatedLine
}

func partitionBySeller(lines []model.ValidatedLine) []sellerPartition {
	grouped := make(map[uint64][]model.ValidatedLine)
	for _, line := range lines {
		grouped[line.SellerID] = append(grouped[line.SellerID], line)
	}

	sellers := make([]uint64, 0, len(grouped))
	for sellerID := range grouped {
		sellers = append(sellers, sellerID)
	}
	sort.Slice(sellers, func(i, j int) bool { return sellers[i] < sellers[j] })

	partitions := make([]sellerPartition, 0, len(sellers))
	for _, sellerID := range sellers {
		partitions = append(partitions, sellerPartition{sellerID: sellerID, lines: grouped[sellerID]})
	}
	return partitions
}

func classifyValidation(validation *model.CartValidation) constant.ErrorType {
	for _, issue := range validation.Errors {
		switch issue.Reason {
		case cartapp.ReasonCartEmpty:
			return constant.ErrEmptyCart
		case cartapp.ReasonInsufficientStock:
			return constant.ErrInsufficientStock
		}
	}
	return constant.ErrProductUnavailable
}

// isTxConflict recognizes MySQL deadlock (1213) and lock wait timeout
// (1205) as retryable infrastructure races.
func isTxConflict(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}

// wrapTxErr keeps driver conflict errors intact for the retry check and
// hides everything else behind ErrInternal.
func wrapTxErr(err error) error {
	if isTxConflict(err) {
		return err
	}
	return cerr.SetCustomError(constant.ErrInternal)
}
