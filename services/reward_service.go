package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ff-portal/logger"
	"ff-portal/models"
	"ff-portal/rules"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RewardService pays tournament prizes into user balances. Each team is paid
// at most once per tournament; the Reward transaction carries the
// tournament id as its reference.
type RewardService struct {
	DB  *gorm.DB
	Hub *ChangeHub
	now func() time.Time
}

func NewRewardService(db *gorm.DB, hub *ChangeHub) *RewardService {
	return &RewardService{DB: db, Hub: hub, now: time.Now}
}

type PrizeInput struct {
	// Amount overrides the prize computed from rank and kills when positive.
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

// PayPrize credits a finished tournament's prize to one team's owner.
func (s *RewardService) PayPrize(ctx context.Context, tournamentID, userID string, in PrizeInput) (*models.Transaction, error) {
	if in.Amount < 0 {
		return nil, &invalidInput{msg: "amount must not be negative"}
	}
	id, err := newTransactionID()
	if err != nil {
		return nil, err
	}

	var tx models.Transaction
	err = s.DB.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var t models.Tournament
		if err := db.First(&t, "id = ?", tournamentID).Error; err != nil {
			return notFound(err, "tournament")
		}
		if rules.DeriveStatus(t.StartTime, t.Status, s.now()) != models.StatusFinished {
			return rules.ErrNotFinished
		}

		var rec models.PlayerRecord
		if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rec, "tournament_id = ? AND user_id = ?", tournamentID, userID).Error; err != nil {
			return notFound(err, "player record")
		}

		var paid int64
		if err := db.Model(&models.Transaction{}).
			Where("user_id = ? AND type = ? AND transaction_ref = ?", userID, models.TxReward, tournamentID).
			Count(&paid).Error; err != nil {
			return err
		}
		if paid > 0 {
			return rules.ErrAlreadyRewarded
		}

		amount := in.Amount
		if amount == 0 {
			amount = rules.Prize(t, rec.Rank, rec.Kills)
		}
		if amount == 0 {
			return rules.ErrNoPrize
		}

		res := db.Model(&models.UserProfile{}).Where("id = ?", userID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{What: "profile"}
		}

		note := strings.TrimSpace(in.Note)
		if note == "" {
			note = t.Title
		}
		tx = models.Transaction{
			ID:             id,
			UserID:         userID,
			Type:           models.TxReward,
			Amount:         amount,
			TransactionRef: tournamentID,
			Status:         models.TxCompleted,
			Note:           note,
			Date:           s.now().UnixMilli(),
		}
		if err := db.Create(&tx).Error; err != nil {
			return fmt.Errorf("create reward: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[REWARD] prize paid",
		zap.String("tx_id", tx.ID),
		zap.String("tournament_id", tournamentID),
		zap.String("user_id", userID),
		zap.Int64("amount", tx.Amount))
	s.Hub.Publish(TopicTransactions, userID)
	s.Hub.Publish(TopicProfile, userID)
	return &tx, nil
}

// Rewards lists the prizes paid for one tournament.
func (s *RewardService) Rewards(ctx context.Context, tournamentID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.DB.WithContext(ctx).
		Where("type = ? AND transaction_ref = ?", models.TxReward, tournamentID).
		Order("date DESC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	return txs, nil
}

// --- HTTP handlers ---

func (s *RewardService) PayPrizeHandler(c *fiber.Ctx) error {
	var in PrizeInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid JSON")
		}
	}
	tx, err := s.PayPrize(c.UserContext(), c.Params("id"), c.Params("user_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

func (s *RewardService) ListRewards(c *fiber.Ctx) error {
	txs, err := s.Rewards(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(txs)
}
