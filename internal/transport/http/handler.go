package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"challenges-service/internal/domain/entity"
	"challenges-service/internal/domain/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// userIDHeader carries the authenticated user's ID, set by the gateway.
const userIDHeader = "X-User-ID"

// Handler exposes the challenge, achievement and leaderboard services over
// HTTP JSON.
type Handler struct {
	challenges   service.ChallengeService
	achievements service.AchievementService
	leaderboards service.LeaderboardService
}

// NewHandler creates a new HTTP handler
func NewHandler(challenges service.ChallengeService, achievements service.AchievementService, leaderboards service.LeaderboardService) *Handler {
	return &Handler{
		challenges:   challenges,
		achievements: achievements,
		leaderboards: leaderboards,
	}
}

// Register wires the routes onto the router
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/challenges", h.CreateChallenge).Methods(http.MethodPost)
	api.HandleFunc("/challenges/{id}/join", h.JoinChallenge).Methods(http.MethodPost)
	api.HandleFunc("/challenges/{id}/leave", h.LeaveChallenge).Methods(http.MethodPost)
	api.HandleFunc("/challenges/{id}/confirm", h.ConfirmDay).Methods(http.MethodPost)
	api.HandleFunc("/challenges/{id}/streaks", h.GetStreaks).Methods(http.MethodGet)
	api.HandleFunc("/challenges/{id}/pending-days", h.GetPendingDays).Methods(http.MethodGet)
	api.HandleFunc("/challenges/{id}/leaderboard", h.GetLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/achievements", h.ListAchievements).Methods(http.MethodGet)
	api.HandleFunc("/achievements/viewed", h.MarkAchievementsViewed).Methods(http.MethodPost)
}

// Health reports service liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestUser extracts the authenticated user from the gateway header.
func requestUser(r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func pathChallengeID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

type createChallengeRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	ObjectiveType string  `json:"objective_type"`
	StartDate     string  `json:"start_date"`
	DurationDays  int32   `json:"duration_days"`
	Public        bool    `json:"public"`
}

type challengeResponse struct {
	ID            string  `json:"id"`
	CreatorID     string  `json:"creator_id"`
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	ObjectiveType string  `json:"objective_type"`
	StartDate     string  `json:"start_date"`
	DurationDays  int32   `json:"duration_days"`
	Public        bool    `json:"public"`
	IsActive      bool    `json:"is_active"`
	CreatedAt     string  `json:"created_at"`
}

func mapChallenge(c *entity.Challenge) challengeResponse {
	return challengeResponse{
		ID:            c.ID.String(),
		CreatorID:     c.CreatorID.String(),
		Name:          c.Name,
		Description:   c.Description,
		ObjectiveType: string(c.ObjectiveType),
		StartDate:     c.StartDate,
		DurationDays:  c.DurationDays,
		Public:        c.Public,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
}

// CreateChallenge handles POST /api/v1/challenges
func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid user id")
		return
	}

	var req createChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	challenge, err := h.challenges.CreateChallenge(r.Context(), userID, req.Name, req.Description,
		entity.ObjectiveType(req.ObjectiveType), req.StartDate, req.DurationDays, req.Public)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, mapChallenge(challenge))
}

type membershipResponse struct {
	ID          string `json:"id"`
	ChallengeID string `json:"challenge_id"`
	UserID      string `json:"user_id"`
	Status      string `json:"status"`
	JoinedAt    string `json:"joined_at"`
}

// JoinChallenge handles POST /api/v1/challenges/{id}/join
func (h *Handler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid user id")
		return
	}

	challengeID, err := pathChallengeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid challenge id")
		return
	}

	membership, err := h.challenges.JoinChallenge(r.Context(), userID, challengeID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, membershipResponse{
		ID:          membership.ID.String(),
		ChallengeID: membership.ChallengeID.String(),
		UserID:      membership.UserID.String(),
		Status:      string(membership.Status),
		JoinedAt:    membership.JoinedAt.Format(time.RFC3339),
	})
}

// LeaveChallenge handles POST /api/v1/challenges/{id}/leave
func (h *Handler) LeaveChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid user id")
		return
	}

	challengeID, err := pathChallengeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid challenge id")
		return
	}

	if err := h.challenges.LeaveChallenge(r.Context(), userID, challengeID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}

type confirmDayRequest struct {
	Date     string  `json:"date"`
	Violated bool    `json:"violated"`
	Notes    *string `json:"notes,omitempty"`
}

type confirmationResponse struct {
	ID          string  `json:"id"`
	ChallengeID string  `json:"challenge_id"`
	UserID      string  `json:"user_id"`
	Date        string  `json:"date"`
	Violated    bool    `json:"violated"`
	ConfirmedAt *string `json:"confirmed_at,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// ConfirmDay handles POST /api/v1/challenges/{id}/confirm
func (h *Handler) ConfirmDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid user id")
		return
	}

	challengeID, err := pathChallengeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid challenge id")
		return
	}

	var req confirmDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	confirmation, err := h.challenges.ConfirmDay(r.Context(), userID, challengeID, req.Date, req.Violated, req.Notes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := confirmationResponse{
		ID:          confirmation.ID.String(),
		ChallengeID: confirmation.ChallengeID.String(),
		UserID:      confirmation.UserID.String(),
		Date:        confirmation.Date,
		Violated:    confirmation.Violated,
		Notes:       confirmation.Notes,
	}
	if confirmation.ConfirmedAt != nil {
		ts := confirmation.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &ts
	}

	writeJSON(w, http.StatusOK, resp)
}

type streakResponse struct {
	CurrentStreak     int    `json:"current_streak"`
	BestStreak        int    `json:"best_streak"`
	LastConfirmedDate string `json:"last_confirmed_date,omitempty"`
}

// GetStreaks handles GET /api/v1/challenges/{id}/streaks
func (h *Handler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid user id")
		return
	}

	challengeID, err := pathChallengeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid challenge id")
		return
	}

	streak, err := h.challenges.GetStreaks(r.Context(), userID, challengeID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, streakResponse{
		CurrentStreak:     streak.Current,
		BestStreak:        streak.Best,
		LastConfirmedDate: streak.LastConfirmedDate,
	})
}

// GetPendingDays handles GET /api/v1/challenges/{id}/pending-days
func (h *Handler) GetPendingDays(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid user id")
		return
	}

	challengeID, err := pathChallengeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid challenge id")
		return
	}

	days, err := h.challenges.GetPendingDays(r.Context(), userID, challengeID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if days == nil {
		days = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"pending_days": days})
}

// GetLeaderboard handles GET /api/v1/challenges/{id}/leaderboard?timeframe=MONTH
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	challengeID, err := pathChallengeID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid challenge id")
		return
	}

	timeframe, err := entity.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.leaderboards.Leaderboard(r.Context(), challengeID, timeframe)
	if err != nil {
		log.Printf("Error computing leaderboard for challenge %s: %v", challengeID, err)
		writeError(w, http.StatusInternalServerError, "failed to compute leaderboard")
		return
	}

	if entries == nil {
		entries = []*entity.LeaderboardEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timeframe": timeframe,
		"entries":   entries,
	})
}

type achievementStatusResponse struct {
	ID          int32   `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Tier        string  `json:"tier"`
	Unlocked    bool    `json:"unlocked"`
	EarnedAt    *string `json:"earned_at,omitempty"`
	Viewed      bool    `json:"viewed"`
}

// ListAchievements handles GET /api/v1/achievements
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid user id")
		return
	}

	statuses, err := h.achievements.ListForUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing achievements for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to list achievements")
		return
	}

	resp := make([]achievementStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		item := achievementStatusResponse{
			ID:          s.Definition.ID,
			Code:        s.Definition.Code,
			Name:        s.Definition.Name,
			Description: s.Definition.Description,
			Category:    string(s.Definition.Category),
			Tier:        string(s.Definition.Tier),
			Unlocked:    s.Unlocked,
			Viewed:      s.Viewed,
		}
		if s.EarnedAt != nil {
			ts := s.EarnedAt.Format(time.RFC3339)
			item.EarnedAt = &ts
		}
		resp = append(resp, item)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": resp})
}

type markViewedRequest struct {
	AchievementIDs []int32 `json:"achievement_ids"`
}

// MarkAchievementsViewed handles POST /api/v1/achievements/viewed
func (h *Handler) MarkAchievementsViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid user id")
		return
	}

	var req markViewedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.achievements.MarkViewed(r.Context(), userID, req.AchievementIDs); err != nil {
		log.Printf("Error marking achievements viewed for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to mark achievements viewed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
