package handlers

import (
	"ff-portal/services"

	"github.com/gofiber/fiber/v2"
)

func SetupTournamentRoutes(secured fiber.Router, admin fiber.Router, tournamentService *services.TournamentService) {
	secured.Get("/tournaments", tournamentService.ListTournaments)
	secured.Get("/tournaments/:id", tournamentService.GetTournament)
	secured.Get("/tournaments/:id/players", tournamentService.GetPlayers)
	secured.Get("/tournaments/:id/quote", tournamentService.QuoteJoin)
	secured.Post("/tournaments/:id/join", tournamentService.JoinTournament)

	// 🔒 Admin-only routes
	admin.Post("/tournaments", tournamentService.CreateTournament)
	admin.Put("/tournaments/:id", tournamentService.UpdateTournament)
	admin.Delete("/tournaments/:id", tournamentService.DeleteTournament)
	admin.Patch("/tournaments/:id/room", tournamentService.SetRoomInfo)
	admin.Patch("/tournaments/:id/status", tournamentService.UpdateTournamentStatus)
	admin.Patch("/tournaments/:id/players/:user_id/result", tournamentService.RecordPlayerResult)
}
