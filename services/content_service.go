package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ff-portal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentService manages notices, the receiving numbers and the marquee.
type ContentService struct {
	DB  *gorm.DB
	Hub *ChangeHub
	now func() time.Time
}

func NewContentService(db *gorm.DB, hub *ChangeHub) *ContentService {
	return &ContentService{DB: db, Hub: hub, now: time.Now}
}

func (s *ContentService) Notices(ctx context.Context) ([]models.Notice, error) {
	var notices []models.Notice
	if err := s.DB.WithContext(ctx).Order("date DESC").Find(&notices).Error; err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return notices, nil
}

func (s *ContentService) AddNotice(ctx context.Context, text string) (*models.Notice, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &invalidInput{msg: "notice text is required"}
	}
	n := models.Notice{ID: uuid.NewString(), Text: text, Date: s.now().UnixMilli()}
	if err := s.DB.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, fmt.Errorf("create notice: %w", err)
	}
	s.Hub.Publish(TopicNotices, "")
	return &n, nil
}

func (s *ContentService) RemoveNotice(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Delete(&models.Notice{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{What: "notice"}
	}
	s.Hub.Publish(TopicNotices, "")
	return nil
}

// Settings falls back to the default numbers when no row exists.
func (s *ContentService) Settings(ctx context.Context) (models.AdminSettings, error) {
	settings := models.DefaultSettings()
	err := s.DB.WithContext(ctx).First(&settings, models.SingletonID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return settings, err
	}
	return settings, nil
}

func (s *ContentService) SaveSettings(ctx context.Context, bkash, nagad string) (models.AdminSettings, error) {
	settings := models.AdminSettings{
		ID:          models.SingletonID,
		BkashNumber: strings.TrimSpace(bkash),
		NagadNumber: strings.TrimSpace(nagad),
	}
	if settings.BkashNumber == "" || settings.NagadNumber == "" {
		return settings, &invalidInput{msg: "bkash_number and nagad_number are required"}
	}
	if err := s.DB.WithContext(ctx).Save(&settings).Error; err != nil {
		return settings, fmt.Errorf("save settings: %w", err)
	}
	s.Hub.Publish(TopicSettings, "")
	return settings, nil
}

func (s *ContentService) Marquee(ctx context.Context) (models.Marquee, error) {
	m := models.Marquee{ID: models.SingletonID, Text: models.DefaultMarqueeText}
	err := s.DB.WithContext(ctx).First(&m, models.SingletonID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return m, err
	}
	return m, nil
}

func (s *ContentService) SaveMarquee(ctx context.Context, text string) (models.Marquee, error) {
	m := models.Marquee{ID: models.SingletonID, Text: strings.TrimSpace(text)}
	if m.Text == "" {
		return m, &invalidInput{msg: "marquee text is required"}
	}
	if err := s.DB.WithContext(ctx).Save(&m).Error; err != nil {
		return m, fmt.Errorf("save marquee: %w", err)
	}
	s.Hub.Publish(TopicMarquee, "")
	return m, nil
}

// --- HTTP handlers ---

func (s *ContentService) ListNotices(c *fiber.Ctx) error {
	notices, err := s.Notices(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notices)
}

func (s *ContentService) CreateNotice(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	n, err := s.AddNotice(c.UserContext(), req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

func (s *ContentService) DeleteNotice(c *fiber.Ctx) error {
	if err := s.RemoveNotice(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *ContentService) GetSettings(c *fiber.Ctx) error {
	settings, err := s.Settings(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

func (s *ContentService) UpdateSettings(c *fiber.Ctx) error {
	var req struct {
		BkashNumber string `json:"bkash_number"`
		NagadNumber string `json:"nagad_number"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	settings, err := s.SaveSettings(c.UserContext(), req.BkashNumber, req.NagadNumber)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

func (s *ContentService) GetMarquee(c *fiber.Ctx) error {
	m, err := s.Marquee(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}

func (s *ContentService) UpdateMarquee(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	m, err := s.SaveMarquee(c.UserContext(), req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}
