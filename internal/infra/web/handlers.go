package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
)

type groupView struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	IsLocked        bool       `json:"is_locked"`
	LockUntil       *time.Time `json:"lock_until,omitempty"`
	NightLockActive bool       `json:"night_lock_active"`
	DaysRemaining   *int       `json:"days_remaining,omitempty"`
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groupUC.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("listing groups failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, s.viewOf(r, g))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "groupID"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	g, err := s.groupUC.Get(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("group_id", id).Msg("fetching group failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.viewOf(r, g))
}

func (s *Server) viewOf(r *http.Request, g *model.Group) groupView {
	v := groupView{
		ID:              g.ID,
		Title:           g.Title,
		IsLocked:        g.IsLocked,
		LockUntil:       g.LockUntil,
		NightLockActive: g.NightLockActive,
	}
	if days, err := s.subUC.DaysRemaining(r.Context(), g.ID, time.Now()); err == nil {
		v.DaysRemaining = &days
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
