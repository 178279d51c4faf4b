package services

import (
	"context"
	"strconv"
	"strings"

	"ff-portal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchProfiles matches q against name, game id and user id.
func (s *AccountService) SearchProfiles(ctx context.Context, q string, limit int) ([]models.UserProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	db := s.DB.WithContext(ctx).Model(&models.UserProfile{}).Order("name ASC").Limit(limit)
	if q = strings.TrimSpace(q); q != "" {
		term := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(game_id) LIKE ? OR id = ?", term, term, q)
	}
	var users []models.UserProfile
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *AccountService) SearchUsers(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil {
		limit = 50
	}
	users, err := s.SearchProfiles(c.UserContext(), c.Query("q", ""), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}
