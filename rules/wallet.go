package rules

import (
	"strings"

	"ff-portal/models"
)

const (
	MinDeposit    int64 = 100
	MinWithdrawal int64 = 200
)

// ResolveMethod defaults an empty method to bKash and rejects unknown ones.
func ResolveMethod(m models.PaymentMethod) (models.PaymentMethod, error) {
	if m == "" {
		return models.MethodBkash, nil
	}
	if !m.Valid() {
		return "", ErrInvalidMethod
	}
	return m, nil
}

func ValidateDeposit(amount int64, senderNumber, transactionRef string) error {
	if amount < MinDeposit {
		return ErrDepositTooSmall
	}
	if strings.TrimSpace(senderNumber) == "" || strings.TrimSpace(transactionRef) == "" {
		return ErrMissingPayment
	}
	return nil
}

// ValidateWithdrawal checks the request against the balance the caller
// observed. The debit itself must still be guarded at write time.
func ValidateWithdrawal(amount, balance int64, number string) error {
	if amount < MinWithdrawal {
		return ErrWithdrawalTooSmall
	}
	if amount > balance {
		return ErrInsufficientBalance
	}
	if strings.TrimSpace(number) == "" {
		return ErrMissingReceiver
	}
	return nil
}
