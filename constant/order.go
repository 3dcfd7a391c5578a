package constant

type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 1
	OrderStatusConfirmed OrderStatus = 2
	OrderStatusCanceled  OrderStatus = 3
)

type PaymentStatus int

const (
	PaymentStatusPending  PaymentStatus = 1
	PaymentStatusPaid     PaymentStatus = 2
	PaymentStatusFailed   PaymentStatus = 3
	PaymentStatusCanceled PaymentStatus = 4
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

// MaxCartQuantity caps a single cart line.
const MaxCartQuantity = 100
