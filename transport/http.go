package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	cartapp "github.com/farmlink/marketplace/application/cart"
	checkoutapp "github.com/farmlink/marketplace/application/checkout"
	paymentapp "github.com/farmlink/marketplace/application/payment"
	"github.com/farmlink/marketplace/cmd/config"
	"github.com/farmlink/marketplace/constant"
	"github.com/farmlink/marketplace/model"
	utilsContext "github.com/farmlink/marketplace/utils/context"
	"github.com/farmlink/marketplace/utils/errors"
	validatorx "github.com/farmlink/marketplace/utils/validator"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RestHandler struct {
	CartApp     cartapp.CartApp
	CheckoutApp checkoutapp.CheckoutApp
	PaymentApp  paymentapp.PaymentApp
}

func NewTransport(cfg *config.Config, cartApp cartapp.CartApp, checkoutApp checkoutapp.CheckoutApp, paymentApp paymentapp.PaymentApp) http.Handler {
	router := mux.NewRouter()

	rh := &RestHandler{
		CartApp:     cartApp,
		CheckoutApp: checkoutApp,
		PaymentApp:  paymentApp,
	}

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Buyer-facing routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/cart", rh.GetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart", rh.ClearCart).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", rh.AddCartItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{product_id}", rh.UpdateCartItem).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{product_id}", rh.RemoveCartItem).Methods(http.MethodDelete)
	api.HandleFunc("/cart/validate", rh.ValidateCart).Methods(http.MethodGet)
	api.HandleFunc("/checkout", rh.Checkout).Methods(http.MethodPost)
	api.HandleFunc("/payment/confirm", rh.ConfirmPayment).Methods(http.MethodPost)
	api.HandleFunc("/payment/retry/{order_id}", rh.RetryPayment).Methods(http.MethodPost)

	// Gateway webhook, signature-verified before the handler runs
	router.Handle("/webhook/payment",
		WebhookSignatureMiddleware(cfg.Gateway.WebhookSecret)(http.HandlerFunc(rh.PaymentWebhook))).
		Methods(http.MethodPost)

	// Internal routes for the sweep consumer
	router.Handle("/internal/v1/order/{order_id}/release",
		InternalMiddleware(cfg.Internal.APIKey)(http.HandlerFunc(rh.ReleaseOrder))).
		Methods(http.MethodPost)

	// middleware
	router.Use(LoggingMiddleware())
	router.Use(AuthMiddleware(cfg.Auth.JWTSecret))

	return router
}

// GetCart handler
// @Summary Get cart
// @Description Get the current buyer's cart
// @Tags Cart
// @Produce json
// @Success 200 {object} model.CartResponse
// @Security BearerAuth
// @Router /api/v1/cart [get]
func (s *RestHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	buyerID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	res, err := s.CartApp.GetCart(ctx, buyerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// AddCartItem handler
// @Summary Add cart item
// @Description Add a product to the cart or bump its quantity
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body model.AddCartItemRequest true "Add Cart Item Request"
// @Success 200 {object} model.CartResponse
// @Failure 400 {object} errors.CustomError
// @Security BearerAuth
// @Router /api/v1/cart/items [post]
func (s *RestHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	buyerID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	var req model.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.CartApp.AddToCart(ctx, buyerID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// UpdateCartItem handler
// @Summary Update cart item
// @Description Set the quantity of a cart line
// @Tags Cart
// @Accept json
// @Produce json
// @Param product_id path int true "Product ID"
// @Param request body model.UpdateCartItemRequest true "Update Cart Item Request"
// @Success 200 {object} model.CartResponse
// @Failure 400 {object} errors.CustomError
// @Security BearerAuth
// @Router /api/v1/cart/items/{product_id} [put]
func (s *RestHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	buyerID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	productID, err := pathID(r, "product_id")
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	var req model.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.CartApp.UpdateCartItem(ctx, buyerID, productID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// RemoveCartItem handler
// @Summary Remove cart item
// @Tags Cart
// @Produce json
// @Param product_id path int true "Product ID"
// @Success 200
// @Security BearerAuth
// @Router /api/v1/cart/items/{product_id} [delete]
func (s *RestHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	buyerID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	productID, err := pathID(r, "product_id")
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := s.CartApp.RemoveCartItem(ctx, buyerID, productID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}

// ClearCart handler
// @Summary Clear cart
// @Tags Cart
// @Produce json
// @Success 200
// @Security BearerAuth
// @Router /api/v1/cart [delete]
func (s *RestHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	buyerID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	if err := s.CartApp.ClearCart(ctx, buyerID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}

// ValidateCart handler
// @Summary Validate cart
// @Description Re-check price, stock and availability of every cart line
// @Tags Cart
// @Produce json
// @Success 200 {object} model.CartValidation
// @Security BearerAuth
// @Router /api/v1/cart/validate [get]
func (s *RestHandler) ValidateCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	buyerID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	res, err := s.CartApp.ValidateCart(ctx, buyerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Checkout handler
// @Summary Checkout
// @Description Convert the cart into per-seller orders and open the payment session
// @Tags Checkout
// @Accept json
// @Produce json
// @Param request body model.CheckoutRequest true "Checkout Request"
// @Param Idempotency-Key header string false "Client idempotency token"
// @Success 201 {object} model.CheckoutResponse
// @Failure 400 {object} errors.CustomError
// @Failure 502 {object} errors.CustomError
// @Security BearerAuth
// @Router /api/v1/checkout [post]
func (s *RestHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	buyerID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	idempotencyToken := r.Header.Get("Idempotency-Key")

	res, validation, err := s.CheckoutApp.Checkout(ctx, buyerID, &req, idempotencyToken)
	if err != nil {
		if validation != nil {
			// Hand the failing lines back so the client can adjust.
			writeErrorWithData(w, err, validation)
			return
		}
		writeError(w, err)
		return
	}

	writeCreated(w, res)
}

// ConfirmPayment handler
// @Summary Confirm payment
// @Description Synchronous client confirmation of a gateway outcome
// @Tags Payment
// @Accept json
// @Produce json
// @Param request body model.ConfirmPaymentRequest true "Confirm Payment Request"
// @Success 200
// @Failure 404 {object} errors.CustomError
// @Security BearerAuth
// @Router /api/v1/payment/confirm [post]
func (s *RestHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := utilsContext.GetUserID(ctx); !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	var req model.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := s.PaymentApp.ConfirmPayment(ctx, &req); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}

// RetryPayment handler
// @Summary Retry payment
// @Description Open a fresh gateway session for a pending order
// @Tags Payment
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200 {object} model.PaymentSession
// @Failure 400 {object} errors.CustomError
// @Security BearerAuth
// @Router /api/v1/payment/retry/{order_id} [post]
func (s *RestHandler) RetryPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	buyerID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	orderID, err := pathID(r, "order_id")
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.CheckoutApp.RetryPayment(ctx, buyerID, orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// PaymentWebhook handler
// @Summary Gateway webhook
// @Description Asynchronous gateway event delivery. Duplicates and events
// @Description for unknown references are acked so the gateway stops retrying.
// @Tags Payment
// @Accept json
// @Success 200
// @Failure 400 {object} errors.CustomError
// @Router /webhook/payment [post]
func (s *RestHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := io.ReadAll(r.Body)
	if err != nil || len(payload) == 0 {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := s.PaymentApp.HandleGatewayEvent(ctx, payload); err != nil {
		if isErrorType(err, constant.ErrNotFound) {
			// Reference we never issued; ack so the gateway stops retrying.
			writeSuccess(w, nil)
			return
		}
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}

// ReleaseOrder handler (internal)
// @Summary Release order stock
// @Description Cancel an expired pending order and restore its stock
// @Tags Internal
// @Produce json
// @Param order_id path int true "Order ID"
// @Success 200
// @Router /internal/v1/order/{order_id}/release [post]
func (s *RestHandler) ReleaseOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := pathID(r, "order_id")
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := s.PaymentApp.ReleaseOrder(ctx, orderID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}

func pathID(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)[name], 10, 64)
}
