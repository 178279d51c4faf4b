package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ff-portal/models"
	"ff-portal/rules"

	"github.com/gofiber/fiber/v2"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

type SupportService struct {
	DB  *gorm.DB
	Hub *ChangeHub
	now func() time.Time
}

func NewSupportService(db *gorm.DB, hub *ChangeHub) *SupportService {
	return &SupportService{DB: db, Hub: hub, now: time.Now}
}

func (s *SupportService) Send(ctx context.Context, viewer Viewer, text string) (*models.SupportMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, rules.ErrEmptyMessage
	}
	var profile models.UserProfile
	if err := s.DB.WithContext(ctx).First(&profile, "id = ?", viewer.UserID).Error; err != nil {
		return nil, notFound(err, "profile")
	}
	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	msg := models.SupportMessage{
		ID:       "msg_" + id,
		UserID:   viewer.UserID,
		UserName: profile.Name,
		Message:  text,
		Status:   models.MessagePending,
		Date:     s.now().UnixMilli(),
	}
	if err := s.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	s.Hub.Publish(TopicMessages, viewer.UserID)
	return &msg, nil
}

// Messages returns the viewer's own messages newest first; administrators
// see every message.
func (s *SupportService) Messages(ctx context.Context, viewer Viewer) ([]models.SupportMessage, error) {
	db := s.DB.WithContext(ctx).Order("date DESC")
	if !viewer.IsAdmin() {
		db = db.Where("user_id = ?", viewer.UserID)
	}
	var msgs []models.SupportMessage
	if err := db.Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

func (s *SupportService) Reply(ctx context.Context, id, reply string) (*models.SupportMessage, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, rules.ErrEmptyMessage
	}
	var msg models.SupportMessage
	if err := s.DB.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "message")
	}
	msg.Reply = reply
	msg.Status = models.MessageReplied
	if err := s.DB.WithContext(ctx).Save(&msg).Error; err != nil {
		return nil, fmt.Errorf("save reply: %w", err)
	}
	s.Hub.Publish(TopicMessages, msg.UserID)
	return &msg, nil
}

func (s *SupportService) SendMessage(c *fiber.Ctx) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	msg, err := s.Send(c.UserContext(), ViewerFrom(c), req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (s *SupportService) ListMessages(c *fiber.Ctx) error {
	msgs, err := s.Messages(c.UserContext(), ViewerFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msgs)
}

func (s *SupportService) ReplyMessage(c *fiber.Ctx) error {
	var req struct {
		Reply string `json:"reply"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	msg, err := s.Reply(c.UserContext(), c.Params("id"), req.Reply)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(msg)
}
