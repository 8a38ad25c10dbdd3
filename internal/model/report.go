package model

// PaymentStatusCount is one row of the payment status aggregation.
type PaymentStatusCount struct {
	PaymentStatus PaymentStatus
	Count         int64
}
