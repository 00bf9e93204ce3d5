package domain

// PaymentStatus is the processor-reported lifecycle state of an invoice.
type PaymentStatus string

const (
	StatusCheck         PaymentStatus = "check"
	StatusConfirmCheck  PaymentStatus = "confirm_check"
	StatusPaid          PaymentStatus = "paid"
	StatusPaidOver      PaymentStatus = "paid_over"
	StatusFail          PaymentStatus = "fail"
	StatusWrongAmount   PaymentStatus = "wrong_amount"
	StatusCancel        PaymentStatus = "cancel"
	StatusSystemFail    PaymentStatus = "system_fail"
	StatusRefundProcess PaymentStatus = "refund_process"
	StatusRefundFail    PaymentStatus = "refund_fail"
	StatusRefundPaid    PaymentStatus = "refund_paid"
)

// IsFinal reports whether no further transition can occur from s.
func (s PaymentStatus) IsFinal() bool {
	switch s {
	case StatusPaid, StatusPaidOver, StatusFail, StatusCancel, StatusSystemFail, StatusRefundPaid:
		return true
	}
	return false
}

// IsSuccess reports whether s means the merchant got paid.
func (s PaymentStatus) IsSuccess() bool {
	return s == StatusPaid || s == StatusPaidOver
}

// IsFailed reports whether s is a terminal failure.
func (s PaymentStatus) IsFailed() bool {
	return s == StatusFail || s == StatusCancel || s == StatusSystemFail
}

// Branch selects the webhook handler branch for a status. Dispatch is by
// status value only; finality is handled separately.
type Branch int

const (
	BranchUpdate Branch = iota
	BranchSuccess
	BranchFailed
	BranchWrongAmount
)

// Classify maps a status to its handler branch. Refund statuses and
// anything unrecognized fall through to the generic update branch.
func Classify(s PaymentStatus) Branch {
	switch {
	case s.IsSuccess():
		return BranchSuccess
	case s.IsFailed():
		return BranchFailed
	case s == StatusWrongAmount:
		return BranchWrongAmount
	default:
		return BranchUpdate
	}
}

// DisplayText returns a human-readable label for a status.
func (s PaymentStatus) DisplayText() string {
	switch s {
	case StatusCheck:
		return "Pending"
	case StatusConfirmCheck:
		return "Confirming"
	case StatusPaid:
		return "Paid"
	case StatusPaidOver:
		return "Overpaid"
	case StatusFail:
		return "Failed"
	case StatusWrongAmount:
		return "Wrong Amount"
	case StatusCancel:
		return "Cancelled"
	case StatusSystemFail:
		return "System Error"
	case StatusRefundProcess:
		return "Refunding"
	case StatusRefundFail:
		return "Refund Failed"
	case StatusRefundPaid:
		return "Refunded"
	default:
		return string(s)
	}
}
