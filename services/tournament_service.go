package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"ff-portal/logger"
	"ff-portal/models"
	"ff-portal/rules"
	"ff-portal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ObjectStore persists uploaded files and returns their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader, key string) (string, error)
}

type TournamentService struct {
	DB      *gorm.DB
	Hub     *ChangeHub
	Banners ObjectStore
	now     func() time.Time
}

func NewTournamentService(db *gorm.DB, hub *ChangeHub, banners ObjectStore) *TournamentService {
	return &TournamentService{DB: db, Hub: hub, Banners: banners, now: time.Now}
}

// Tournament list views.
const (
	ViewAll  = "all"
	ViewHome = "home"
	ViewMine = "mine"
)

type JoinRequest struct {
	ParticipationType models.MatchType `json:"participation_type"`
	Names             []string         `json:"names"`
}

// JoinQuote is what joining as a given participation type would cost.
type JoinQuote struct {
	TournamentID      string           `json:"tournament_id"`
	ParticipationType models.MatchType `json:"participation_type"`
	Slots             int              `json:"slots"`
	Fee               int64            `json:"fee"`
	Balance           int64            `json:"balance"`
	Affordable        bool             `json:"affordable"`
}

func (s *TournamentService) List(ctx context.Context, viewer Viewer, view string) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	err := s.DB.WithContext(ctx).
		Preload("JoinedPlayers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("start_time ASC").
		Find(&tournaments).Error
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	now := s.now()
	out := make([]models.Tournament, 0, len(tournaments))
	for i := range tournaments {
		t := &tournaments[i]
		decorate(t, viewer, now)
		switch view {
		case ViewHome:
			if t.DerivedStatus == models.StatusFinished {
				continue
			}
		case ViewMine:
			if !hasJoined(t, viewer.UserID) {
				continue
			}
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *TournamentService) Get(ctx context.Context, viewer Viewer, id string) (*models.Tournament, error) {
	var t models.Tournament
	err := s.DB.WithContext(ctx).
		Preload("JoinedPlayers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "tournament")
	}
	decorate(&t, viewer, s.now())
	return &t, nil
}

func (s *TournamentService) Players(ctx context.Context, id string) ([]models.PlayerRecord, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, &NotFoundError{What: "tournament"}
	}
	var players []models.PlayerRecord
	if err := s.DB.WithContext(ctx).Where("tournament_id = ?", id).Order("position ASC").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (s *TournamentService) Quote(ctx context.Context, viewer Viewer, id string, typ models.MatchType) (*JoinQuote, error) {
	if typ == "" {
		typ = models.MatchSolo
	}
	slots, err := rules.RosterSize(typ)
	if err != nil {
		return nil, err
	}
	var t models.Tournament
	if err := s.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "tournament")
	}
	var profile models.UserProfile
	if err := s.DB.WithContext(ctx).First(&profile, "id = ?", viewer.UserID).Error; err != nil {
		return nil, notFound(err, "profile")
	}
	fee, _ := rules.EntryFee(t.BaseEntryFee, typ)
	return &JoinQuote{
		TournamentID:      t.ID,
		ParticipationType: typ,
		Slots:             slots,
		Fee:               fee,
		Balance:           profile.Balance,
		Affordable:        profile.Balance >= fee,
	}, nil
}

// Join registers the viewer's team. Capacity, duplicate membership and the
// fee debit are checked and applied in one transaction with the tournament
// row locked, so a join either fully happens or leaves nothing behind.
func (s *TournamentService) Join(ctx context.Context, viewer Viewer, tournamentID string, req JoinRequest) (*models.PlayerRecord, error) {
	names := rules.TrimNames(req.Names)
	if err := rules.ValidateJoinNames(req.ParticipationType, names); err != nil {
		return nil, err
	}

	var record models.PlayerRecord
	var fee int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t models.Tournament
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, "id = ?", tournamentID).Error; err != nil {
			return notFound(err, "tournament")
		}
		if rules.DeriveStatus(t.StartTime, t.Status, s.now()) == models.StatusFinished {
			return rules.ErrTournamentClosed
		}

		var mine int64
		if err := tx.Model(&models.PlayerRecord{}).
			Where("tournament_id = ? AND user_id = ?", t.ID, viewer.UserID).
			Count(&mine).Error; err != nil {
			return err
		}
		if mine > 0 {
			return rules.ErrAlreadyJoined
		}

		var filled int64
		if err := tx.Model(&models.PlayerRecord{}).Where("tournament_id = ?", t.ID).Count(&filled).Error; err != nil {
			return err
		}
		if int(filled) >= t.MaxPlayers {
			return rules.ErrTournamentFull
		}

		var err error
		fee, err = rules.EntryFee(t.BaseEntryFee, req.ParticipationType)
		if err != nil {
			return err
		}
		if err := debit(tx, viewer.UserID, fee); err != nil {
			return err
		}

		record = models.PlayerRecord{
			ID:                uuid.NewString(),
			TournamentID:      t.ID,
			UserID:            viewer.UserID,
			Names:             names,
			ParticipationType: req.ParticipationType,
			Position:          int(filled) + 1,
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("[TOURNAMENT] team joined",
		zap.String("tournament_id", tournamentID),
		zap.String("user_id", viewer.UserID),
		zap.String("type", string(req.ParticipationType)),
		zap.Int64("fee", fee))
	s.Hub.Publish(TopicTournaments, "")
	s.Hub.Publish(TopicProfile, viewer.UserID)
	return &record, nil
}

// debit subtracts amount from the user's balance only if the balance covers
// it.
func debit(tx *gorm.DB, userID string, amount int64) error {
	res := tx.Model(&models.UserProfile{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := tx.Model(&models.UserProfile{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return &NotFoundError{What: "profile"}
		}
		return rules.ErrInsufficientBalance
	}
	return nil
}

// decorate fills calculated fields and hides room credentials from anyone
// who may not see them yet.
func decorate(t *models.Tournament, viewer Viewer, now time.Time) {
	t.DerivedStatus = rules.DeriveStatus(t.StartTime, t.Status, now)
	t.FilledSlots = len(t.JoinedPlayers)
	sort.SliceStable(t.JoinedPlayers, func(i, j int) bool {
		return t.JoinedPlayers[i].Position < t.JoinedPlayers[j].Position
	})
	if viewer.IsAdmin() {
		return
	}
	if !rules.RoomVisible(t.DerivedStatus, hasJoined(t, viewer.UserID)) {
		t.RoomID = ""
		t.RoomPass = ""
	}
}

func hasJoined(t *models.Tournament, userID string) bool {
	if userID == "" {
		return false
	}
	for _, p := range t.JoinedPlayers {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// --- Administration ---

type TournamentInput struct {
	Title        string           `json:"title"`
	Type         models.MatchType `json:"type"`
	BaseEntryFee int64            `json:"base_entry_fee"`
	PerKill      int64            `json:"per_kill"`
	Prize1       int64            `json:"prize1"`
	Prize2       int64            `json:"prize2"`
	Prize3       int64            `json:"prize3"`
	StartTime    int64            `json:"start_time"`
	MaxPlayers   int              `json:"max_players"`
	Map          string           `json:"map"`
	RoomID       string           `json:"room_id"`
	RoomPass     string           `json:"room_pass"`
}

func (in TournamentInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return errors.New("title is required")
	case !in.Type.Valid():
		return rules.ErrInvalidMatchType
	case in.BaseEntryFee < 0 || in.PerKill < 0 || in.Prize1 < 0 || in.Prize2 < 0 || in.Prize3 < 0:
		return errors.New("fees and prizes must be non-negative")
	case in.StartTime <= 0:
		return errors.New("start_time is required")
	case in.MaxPlayers <= 0:
		return errors.New("max_players must be positive")
	}
	return nil
}

// TournamentPatch carries the fields an update may change; nil means keep.
type TournamentPatch struct {
	Title        *string           `json:"title"`
	Type         *models.MatchType `json:"type"`
	BaseEntryFee *int64            `json:"base_entry_fee"`
	PerKill      *int64            `json:"per_kill"`
	Prize1       *int64            `json:"prize1"`
	Prize2       *int64            `json:"prize2"`
	Prize3       *int64            `json:"prize3"`
	StartTime    *int64            `json:"start_time"`
	MaxPlayers   *int              `json:"max_players"`
	Map          *string           `json:"map"`
}

type invalidInput struct{ msg string }

func (e *invalidInput) Error() string { return e.msg }

func (s *TournamentService) Create(ctx context.Context, in TournamentInput, banner *multipart.FileHeader) (*models.Tournament, error) {
	if err := in.validate(); err != nil {
		var ruleErr *rules.Error
		if errors.As(err, &ruleErr) {
			return nil, err
		}
		return nil, &invalidInput{msg: err.Error()}
	}

	t := models.Tournament{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		Type:         in.Type,
		BaseEntryFee: in.BaseEntryFee,
		PerKill:      in.PerKill,
		Prize1:       in.Prize1,
		Prize2:       in.Prize2,
		Prize3:       in.Prize3,
		StartTime:    in.StartTime,
		MaxPlayers:   in.MaxPlayers,
		Map:          strings.TrimSpace(in.Map),
		RoomID:       strings.TrimSpace(in.RoomID),
		RoomPass:     strings.TrimSpace(in.RoomPass),
	}

	if banner != nil && banner.Size > 0 && s.Banners != nil {
		url, err := s.Banners.Upload(ctx, banner, utils.BannerKey(t.Title, banner.Filename))
		if err != nil {
			return nil, fmt.Errorf("upload banner: %w", err)
		}
		t.BannerURL = url
	}

	if err := s.DB.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create tournament: %w", err)
	}
	logger.Info("[TOURNAMENT] created", zap.String("tournament_id", t.ID), zap.String("title", t.Title))
	s.Hub.Publish(TopicTournaments, "")
	return &t, nil
}

func (s *TournamentService) Update(ctx context.Context, id string, patch TournamentPatch) (*models.Tournament, error) {
	updates := map[string]interface{}{}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, &invalidInput{msg: "title must not be empty"}
		}
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, rules.ErrInvalidMatchType
		}
		updates["type"] = *patch.Type
	}
	for col, v := range map[string]*int64{
		"base_entry_fee": patch.BaseEntryFee,
		"per_kill":       patch.PerKill,
		"prize1":         patch.Prize1,
		"prize2":         patch.Prize2,
		"prize3":         patch.Prize3,
	} {
		if v == nil {
			continue
		}
		if *v < 0 {
			return nil, &invalidInput{msg: col + " must be non-negative"}
		}
		updates[col] = *v
	}
	if patch.StartTime != nil {
		if *patch.StartTime <= 0 {
			return nil, &invalidInput{msg: "start_time must be positive"}
		}
		updates["start_time"] = *patch.StartTime
	}
	if patch.MaxPlayers != nil {
		if *patch.MaxPlayers <= 0 {
			return nil, &invalidInput{msg: "max_players must be positive"}
		}
		updates["max_players"] = *patch.MaxPlayers
	}
	if patch.Map != nil {
		updates["map"] = strings.TrimSpace(*patch.Map)
	}
	if len(updates) == 0 {
		return nil, &invalidInput{msg: "nothing to update"}
	}
	return s.applyUpdates(ctx, id, updates)
}

// SetRoom publishes the room credentials. They stay hidden from players
// until the match is live.
func (s *TournamentService) SetRoom(ctx context.Context, id, roomID, roomPass string) (*models.Tournament, error) {
	return s.applyUpdates(ctx, id, map[string]interface{}{
		"room_id":   strings.TrimSpace(roomID),
		"room_pass": strings.TrimSpace(roomPass),
	})
}

// SetStatus stores a status override. Only Finished changes the derived
// status; an empty status clears the override.
func (s *TournamentService) SetStatus(ctx context.Context, id string, status models.MatchStatus) (*models.Tournament, error) {
	if status != "" && !status.Valid() {
		return nil, &invalidInput{msg: "status must be Upcoming, Live, Finished or empty"}
	}
	return s.applyUpdates(ctx, id, map[string]interface{}{"status": status})
}

func (s *TournamentService) applyUpdates(ctx context.Context, id string, updates map[string]interface{}) (*models.Tournament, error) {
	res := s.DB.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update tournament: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &NotFoundError{What: "tournament"}
	}
	s.Hub.Publish(TopicTournaments, "")
	return s.Get(ctx, Viewer{Roles: []string{string(models.RoleAdmin)}}, id)
}

type ResultInput struct {
	Kills *int `json:"kills"`
	Rank  *int `json:"rank"`
}

// RecordResult stores kills and placement for one team after the match.
func (s *TournamentService) RecordResult(ctx context.Context, tournamentID, userID string, in ResultInput) (*models.PlayerRecord, error) {
	if (in.Kills != nil && *in.Kills < 0) || (in.Rank != nil && *in.Rank < 1) {
		return nil, &invalidInput{msg: "kills must be non-negative and rank at least 1"}
	}
	var rec models.PlayerRecord
	if err := s.DB.WithContext(ctx).First(&rec, "tournament_id = ? AND user_id = ?", tournamentID, userID).Error; err != nil {
		return nil, notFound(err, "player record")
	}
	if in.Kills != nil {
		rec.Kills = in.Kills
	}
	if in.Rank != nil {
		rec.Rank = in.Rank
	}
	if err := s.DB.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	s.Hub.Publish(TopicTournaments, "")
	return &rec, nil
}

func (s *TournamentService) Delete(ctx context.Context, id string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tournament_id = ?", id).Delete(&models.PlayerRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Tournament{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{What: "tournament"}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("[TOURNAMENT] deleted", zap.String("tournament_id", id))
	s.Hub.Publish(TopicTournaments, "")
	return nil
}
