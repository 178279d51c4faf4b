package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ff-portal/logger"
	"ff-portal/models"
	"ff-portal/rules"

	"github.com/gofiber/fiber/v2"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WalletService records deposit and withdrawal requests. Deposits wait for
// an administrator and never credit the balance themselves.
type WalletService struct {
	DB  *gorm.DB
	Hub *ChangeHub
	now func() time.Time
}

func NewWalletService(db *gorm.DB, hub *ChangeHub) *WalletService {
	return &WalletService{DB: db, Hub: hub, now: time.Now}
}

type DepositRequest struct {
	Amount        int64                `json:"amount"`
	Method        models.PaymentMethod `json:"method"`
	SenderNumber  string               `json:"sender_number"`
	TransactionID string               `json:"transaction_id"`
}

type WithdrawRequest struct {
	Amount int64                `json:"amount"`
	Method models.PaymentMethod `json:"method"`
	Number string               `json:"number"`
}

type WalletOverview struct {
	Balance      int64                `json:"balance"`
	Settings     models.AdminSettings `json:"settings"`
	Transactions []models.Transaction `json:"transactions"`
}

func newTransactionID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	return "tx_" + id, nil
}

func (s *WalletService) Deposit(ctx context.Context, viewer Viewer, req DepositRequest) (*models.Transaction, error) {
	method, err := rules.ResolveMethod(req.Method)
	if err != nil {
		return nil, err
	}
	if err := rules.ValidateDeposit(req.Amount, req.SenderNumber, req.TransactionID); err != nil {
		return nil, err
	}
	id, err := newTransactionID()
	if err != nil {
		return nil, err
	}

	tx := models.Transaction{
		ID:             id,
		UserID:         viewer.UserID,
		Type:           models.TxDeposit,
		Amount:         req.Amount,
		Method:         method,
		SenderNumber:   strings.TrimSpace(req.SenderNumber),
		TransactionRef: strings.TrimSpace(req.TransactionID),
		Status:         models.TxPending,
		Date:           s.now().UnixMilli(),
	}
	if err := s.DB.WithContext(ctx).Create(&tx).Error; err != nil {
		return nil, fmt.Errorf("create deposit: %w", err)
	}
	logger.Info("[WALLET] deposit requested",
		zap.String("tx_id", tx.ID),
		zap.String("user_id", viewer.UserID),
		zap.Int64("amount", tx.Amount))
	s.Hub.Publish(TopicTransactions, viewer.UserID)
	return &tx, nil
}

// Withdraw debits the balance immediately and records a Pending request.
func (s *WalletService) Withdraw(ctx context.Context, viewer Viewer, req WithdrawRequest) (*models.Transaction, error) {
	method, err := rules.ResolveMethod(req.Method)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := s.DB.WithContext(ctx).First(&profile, "id = ?", viewer.UserID).Error; err != nil {
		return nil, notFound(err, "profile")
	}
	if err := rules.ValidateWithdrawal(req.Amount, profile.Balance, req.Number); err != nil {
		return nil, err
	}
	id, err := newTransactionID()
	if err != nil {
		return nil, err
	}

	tx := models.Transaction{
		ID:     id,
		UserID: viewer.UserID,
		Type:   models.TxWithdraw,
		Amount: req.Amount,
		Method: method,
		Number: strings.TrimSpace(req.Number),
		Status: models.TxPending,
		Date:   s.now().UnixMilli(),
	}
	err = s.DB.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := debit(db, viewer.UserID, req.Amount); err != nil {
			return err
		}
		return db.Create(&tx).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Info("[WALLET] withdrawal requested",
		zap.String("tx_id", tx.ID),
		zap.String("user_id", viewer.UserID),
		zap.Int64("amount", tx.Amount))
	s.Hub.Publish(TopicTransactions, viewer.UserID)
	s.Hub.Publish(TopicProfile, viewer.UserID)
	return &tx, nil
}

// Transactions returns the viewer's ledger newest first; administrators see
// everyone's.
func (s *WalletService) Transactions(ctx context.Context, viewer Viewer) ([]models.Transaction, error) {
	db := s.DB.WithContext(ctx).Order("date DESC")
	if !viewer.IsAdmin() {
		db = db.Where("user_id = ?", viewer.UserID)
	}
	var txs []models.Transaction
	if err := db.Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *WalletService) Overview(ctx context.Context, viewer Viewer) (*WalletOverview, error) {
	var profile models.UserProfile
	if err := s.DB.WithContext(ctx).First(&profile, "id = ?", viewer.UserID).Error; err != nil {
		return nil, notFound(err, "profile")
	}
	settings := models.DefaultSettings()
	if err := s.DB.WithContext(ctx).First(&settings, models.SingletonID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	var txs []models.Transaction
	if err := s.DB.WithContext(ctx).Where("user_id = ?", viewer.UserID).Order("date DESC").Find(&txs).Error; err != nil {
		return nil, err
	}
	return &WalletOverview{Balance: profile.Balance, Settings: settings, Transactions: txs}, nil
}

// --- Administration ---

func (s *WalletService) ListByStatus(ctx context.Context, status models.TransactionStatus) ([]models.Transaction, error) {
	db := s.DB.WithContext(ctx).Order("date DESC")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var txs []models.Transaction
	if err := db.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// SetStatus records a review decision. It never moves money; crediting a
// deposit is a separate manual adjustment.
func (s *WalletService) SetStatus(ctx context.Context, id string, status models.TransactionStatus) (*models.Transaction, error) {
	if !status.Valid() {
		return nil, &invalidInput{msg: "status must be Pending, Completed or Rejected"}
	}
	var tx models.Transaction
	if err := s.DB.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "transaction")
	}
	if err := s.DB.WithContext(ctx).Model(&tx).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	tx.Status = status
	logger.Info("[WALLET] transaction reviewed", zap.String("tx_id", id), zap.String("status", string(status)))
	s.Hub.Publish(TopicTransactions, tx.UserID)
	return &tx, nil
}

// Adjust changes a balance by delta and records a Completed Manual entry.
// A negative delta may not take the balance below zero.
func (s *WalletService) Adjust(ctx context.Context, userID string, delta int64, note string) (*models.Transaction, error) {
	if delta == 0 {
		return nil, &invalidInput{msg: "amount must not be zero"}
	}
	id, err := newTransactionID()
	if err != nil {
		return nil, err
	}
	tx := models.Transaction{
		ID:     id,
		UserID: userID,
		Type:   models.TxManual,
		Amount: delta,
		Status: models.TxCompleted,
		Note:   strings.TrimSpace(note),
		Date:   s.now().UnixMilli(),
	}
	err = s.DB.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if delta < 0 {
			if err := debit(db, userID, -delta); err != nil {
				return err
			}
		} else {
			res := db.Model(&models.UserProfile{}).Where("id = ?", userID).
				Update("balance", gorm.Expr("balance + ?", delta))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &NotFoundError{What: "profile"}
			}
		}
		return db.Create(&tx).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Info("[WALLET] manual adjustment",
		zap.String("tx_id", tx.ID),
		zap.String("user_id", userID),
		zap.Int64("delta", delta))
	s.Hub.Publish(TopicTransactions, userID)
	s.Hub.Publish(TopicProfile, userID)
	return &tx, nil
}

// --- HTTP handlers ---

func (s *WalletService) GetWallet(c *fiber.Ctx) error {
	w, err := s.Overview(c.UserContext(), ViewerFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(w)
}

func (s *WalletService) RequestDeposit(c *fiber.Ctx) error {
	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	tx, err := s.Deposit(c.UserContext(), ViewerFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

func (s *WalletService) RequestWithdrawal(c *fiber.Ctx) error {
	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	tx, err := s.Withdraw(c.UserContext(), ViewerFrom(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

func (s *WalletService) ListTransactions(c *fiber.Ctx) error {
	txs, err := s.ListByStatus(c.UserContext(), models.TransactionStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(txs)
}

func (s *WalletService) UpdateTransactionStatus(c *fiber.Ctx) error {
	var req struct {
		Status models.TransactionStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	tx, err := s.SetStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

func (s *WalletService) AdjustBalance(c *fiber.Ctx) error {
	var req struct {
		Amount int64  `json:"amount"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	tx, err := s.Adjust(c.UserContext(), c.Params("id"), req.Amount, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}
