package handlers

import (
	"ff-portal/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContentRoutes(secured fiber.Router, admin fiber.Router, contentService *services.ContentService, supportService *services.SupportService) {
	secured.Get("/notices", contentService.ListNotices)
	secured.Get("/settings", contentService.GetSettings)
	secured.Get("/marquee", contentService.GetMarquee)
	secured.Get("/support/messages", supportService.ListMessages)
	secured.Post("/support/messages", supportService.SendMessage)

	admin.Post("/notices", contentService.CreateNotice)
	admin.Delete("/notices/:id", contentService.DeleteNotice)
	admin.Put("/settings", contentService.UpdateSettings)
	admin.Put("/marquee", contentService.UpdateMarquee)
	admin.Get("/messages", supportService.ListMessages)
	admin.Patch("/messages/:id/reply", supportService.ReplyMessage)
}
