package handlers

import (
	"ff-portal/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRewardRoutes(admin fiber.Router, rewardService *services.RewardService) {
	admin.Get("/tournaments/:id/rewards", rewardService.ListRewards)
	admin.Post("/tournaments/:id/players/:user_id/reward", rewardService.PayPrizeHandler)
}
