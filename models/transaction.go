package models

import "time"

type TransactionKind string

const (
	TxDeposit  TransactionKind = "Deposit"
	TxWithdraw TransactionKind = "Withdraw"
	TxReward   TransactionKind = "Reward"
	TxManual   TransactionKind = "Manual"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "Pending"
	TxCompleted TransactionStatus = "Completed"
	TxRejected  TransactionStatus = "Rejected"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxPending, TxCompleted, TxRejected:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodBkash PaymentMethod = "bKash"
	MethodNagad PaymentMethod = "Nagad"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodBkash || m == MethodNagad
}

// Transaction is a wallet ledger entry. Date is epoch milliseconds.
// Deposits are recorded as Pending and never move the balance on their own.
type Transaction struct {
	ID             string            `json:"id" gorm:"primaryKey"`
	UserID         string            `json:"user_id" gorm:"not null;index"`
	Type           TransactionKind   `json:"type" gorm:"type:varchar(16);not null"`
	Amount         int64             `json:"amount" gorm:"not null"`
	Method         PaymentMethod     `json:"method,omitempty" gorm:"type:varchar(16)"`
	Number         string            `json:"number,omitempty"`
	SenderNumber   string            `json:"sender_number,omitempty"`
	TransactionRef string            `json:"transaction_id,omitempty" gorm:"column:transaction_ref"`
	Status         TransactionStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	Note           string            `json:"note,omitempty"`
	Date           int64             `json:"date" gorm:"not null;index"`
	UpdatedAt      time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}
