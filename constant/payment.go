package constant

// Gateway event types as delivered on the webhook channel.
const (
	GatewayEventSucceeded = "payment_intent.succeeded"
	GatewayEventFailed    = "payment_intent.payment_failed"
	GatewayEventCanceled  = "payment_intent.canceled"
)

// Outcomes reported by the synchronous client-confirmation channel.
const (
	PaymentOutcomeSucceeded = "succeeded"
	PaymentOutcomeFailed    = "failed"
	PaymentOutcomeCanceled  = "canceled"
)

const GatewayNameDefault = "cardpay"
