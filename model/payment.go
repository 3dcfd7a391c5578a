package model

import (
	"github.com/farmlink/marketplace/constant"
)

type Payment struct {
	ID               uint64                 `db:"id"`
	OrderID          uint64                 `db:"order_id"`
	BuyerID          uint64                 `db:"buyer_id"`
	Amount           int64                  `db:"amount"`
	Method           constant.PaymentMethod `db:"method"`
	Gateway          string                 `db:"gateway"`
	GatewayReference string                 `db:"gateway_reference"`
	Status           constant.PaymentStatus `db:"status"`
}

type InsertPaymentTxItem struct {
	OrderID uint64
	BuyerID uint64
	Amount  int64
	Method  constant.PaymentMethod
	Gateway string
}

type ConfirmPaymentRequest struct {
	GatewayReference string `json:"gateway_reference" validate:"required"`
	Outcome          string `json:"outcome" validate:"required,oneof=succeeded failed canceled"`
}

// GatewayWebhookPayload mirrors the gateway's raw webhook envelope.
type GatewayWebhookPayload struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string `json:"id"`
			Metadata struct {
				OrderIDs string `json:"order_ids"`
				BuyerID  string `json:"buyer_id"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

type GatewayEventKind int

const (
	GatewayEventKindUnknown GatewayEventKind = iota
	GatewayEventKindSucceeded
	GatewayEventKindFailed
	GatewayEventKindCanceled
)

// GatewayEvent is the decoded, tagged form of a webhook payload. Unknown
// event types decode to GatewayEventKindUnknown and are acked without any
// state change.
type GatewayEvent struct {
	Kind             GatewayEventKind
	GatewayReference string
}
