package services

import (
	"strconv"
	"strings"
	"time"

	"ff-portal/models"

	"github.com/gofiber/fiber/v2"
)

func (s *TournamentService) ListTournaments(c *fiber.Ctx) error {
	view := c.Query("view", ViewAll)
	if view != ViewAll && view != ViewHome && view != ViewMine {
		return badRequest(c, "view must be all, home or mine")
	}
	list, err := s.List(c.UserContext(), ViewerFrom(c), view)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (s *TournamentService) GetTournament(c *fiber.Ctx) error {
	t, err := s.Get(c.UserContext(), ViewerFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

func (s *TournamentService) GetPlayers(c *fiber.Ctx) error {
	players, err := s.Players(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(players)
}

func (s *TournamentService) QuoteJoin(c *fiber.Ctx) error {
	q, err := s.Quote(c.UserContext(), ViewerFrom(c), c.Params("id"), models.MatchType(c.Query("type")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(q)
}

func (s *TournamentService) JoinTournament(c *fiber.Ctx) error {
	var req JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	rec, err := s.Join(c.UserContext(), ViewerFrom(c), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// CreateTournament accepts a multipart form so a banner image can be sent
// along with the fields.
func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	in := TournamentInput{
		Title:    c.FormValue("title"),
		Type:     models.MatchType(c.FormValue("type")),
		Map:      c.FormValue("map"),
		RoomID:   c.FormValue("room_id"),
		RoomPass: c.FormValue("room_pass"),
	}

	ints := map[string]*int64{
		"base_entry_fee": &in.BaseEntryFee,
		"per_kill":       &in.PerKill,
		"prize1":         &in.Prize1,
		"prize2":         &in.Prize2,
		"prize3":         &in.Prize3,
	}
	for field, dst := range ints {
		raw := strings.TrimSpace(c.FormValue(field))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return badRequest(c, field+" must be an integer")
		}
		*dst = v
	}

	if raw := strings.TrimSpace(c.FormValue("max_players")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "max_players must be an integer")
		}
		in.MaxPlayers = n
	}

	start, err := parseStartTime(c.FormValue("start_time"))
	if err != nil {
		return badRequest(c, "invalid start_time (use epoch milliseconds or RFC3339)")
	}
	in.StartTime = start

	banner, err := c.FormFile("banner")
	if err != nil {
		banner = nil
	}

	t, err := s.Create(c.UserContext(), in, banner)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

func parseStartTime(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ms, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error {
	var patch TournamentPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "invalid JSON")
	}
	t, err := s.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

func (s *TournamentService) SetRoomInfo(c *fiber.Ctx) error {
	var req struct {
		RoomID   string `json:"room_id"`
		RoomPass string `json:"room_pass"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	t, err := s.SetRoom(c.UserContext(), c.Params("id"), req.RoomID, req.RoomPass)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

func (s *TournamentService) UpdateTournamentStatus(c *fiber.Ctx) error {
	var req struct {
		Status models.MatchStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	t, err := s.SetStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(t)
}

func (s *TournamentService) RecordPlayerResult(c *fiber.Ctx) error {
	var in ResultInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid JSON")
	}
	rec, err := s.RecordResult(c.UserContext(), c.Params("id"), c.Params("user_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error {
	if err := s.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
