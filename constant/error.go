package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrInsufficientStock
	ErrProductUnavailable
	ErrValidationStale
	ErrGateway
	ErrInvalidOrderStatus
	ErrEmptyCart
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:            "success",
	ErrInternal:           "error internal",
	ErrNotFound:           "data not found",
	ErrInvalidRequest:     "invalid request",
	ErrUnauthorize:        "unauthorize request",
	ErrInsufficientStock:  "insufficient stock",
	ErrProductUnavailable: "product unavailable",
	ErrValidationStale:    "cart changed, please validate again",
	ErrGateway:            "payment gateway unavailable, please retry later",
	ErrInvalidOrderStatus: "invalid order status",
	ErrEmptyCart:          "cart is empty",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:            http.StatusOK,
	ErrInternal:           http.StatusInternalServerError,
	ErrNotFound:           http.StatusNotFound,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrUnauthorize:        http.StatusUnauthorized,
	ErrInsufficientStock:  http.StatusBadRequest,
	ErrProductUnavailable: http.StatusBadRequest,
	ErrValidationStale:    http.StatusConflict,
	ErrGateway:            http.StatusBadGateway,
	ErrInvalidOrderStatus: http.StatusBadRequest,
	ErrEmptyCart:          http.StatusBadRequest,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:            "0000",
	ErrInternal:           "0001",
	ErrNotFound:           "0002",
	ErrInvalidRequest:     "0003",
	ErrUnauthorize:        "0004",
	ErrInsufficientStock:  "0005",
	ErrProductUnavailable: "0006",
	ErrValidationStale:    "0007",
	ErrGateway:            "0008",
	ErrInvalidOrderStatus: "0009",
	ErrEmptyCart:          "0010",
}
