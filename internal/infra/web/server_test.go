package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/repository"
	"telegram-group-guardian/internal/usecase"
)

type stubGroupUC struct {
	groups []*model.Group
}

func (s *stubGroupUC) Register(_ context.Context, chatID int64, title string, _ time.Time) (*model.Group, error) {
	return nil, domain.ErrOperationFailed
}

func (s *stubGroupUC) Get(_ context.Context, chatID int64) (*model.Group, error) {
	for _, g := range s.groups {
		if g.ID == chatID {
			return g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubGroupUC) List(context.Context) ([]*model.Group, error) {
	return s.groups, nil
}

type stubSubUC struct {
	days map[int64]int
}

func (s *stubSubUC) Provision(context.Context, repository.Tx, int64, time.Time) (*model.GroupSubscription, error) {
	return nil, domain.ErrOperationFailed
}

func (s *stubSubUC) DaysRemaining(_ context.Context, groupID int64, _ time.Time) (int, error) {
	d, ok := s.days[groupID]
	if !ok {
		return 0, domain.ErrNoSubscription
	}
	return d, nil
}

func (s *stubSubUC) Sweep(context.Context, time.Time) (*usecase.SweepReport, error) {
	return nil, nil
}

func newTestServer(groups []*model.Group, days map[int64]int) *Server {
	logger := zerolog.New(io.Discard)
	return NewServer(&stubGroupUC{groups: groups}, &stubSubUC{days: days}, 0, "secret", &logger)
}

func get(t *testing.T, srv *Server, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.httpSrv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestOpsServer(t *testing.T) {
	groups := []*model.Group{
		{ID: 1, Title: "alpha", NightLockActive: true},
		{ID: 2, Title: "beta", IsLocked: true},
	}
	srv := newTestServer(groups, map[int64]int{1: 12})

	t.Run("health is open", func(t *testing.T) {
		if rec := get(t, srv, "/health", ""); rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("api requires the bearer token", func(t *testing.T) {
		if rec := get(t, srv, "/api/v1/groups", ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 without a token, got %d", rec.Code)
		}
		if rec := get(t, srv, "/api/v1/groups", "wrong"); rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 with a bad token, got %d", rec.Code)
		}
	})

	t.Run("list groups", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/groups", "secret")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var views []groupView
		if err := json.NewDecoder(rec.Body).Decode(&views); err != nil {
			t.Fatal(err)
		}
		if len(views) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(views))
		}
		if views[0].DaysRemaining == nil || *views[0].DaysRemaining != 12 {
			t.Error("expected group 1 to carry its remaining days")
		}
		if views[1].DaysRemaining != nil {
			t.Error("a group without a subscription must omit the field")
		}
	})

	t.Run("get one group", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/groups/2", "secret")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var v groupView
		if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
			t.Fatal(err)
		}
		if v.Title != "beta" || !v.IsLocked {
			t.Errorf("unexpected view: %+v", v)
		}
	})

	t.Run("unknown group is 404", func(t *testing.T) {
		if rec := get(t, srv, "/api/v1/groups/99", "secret"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		if rec := get(t, srv, "/api/v1/groups/abc", "secret"); rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("api refused entirely without a configured key", func(t *testing.T) {
		logger := zerolog.New(io.Discard)
		open := NewServer(&stubGroupUC{}, &stubSubUC{}, 0, "", &logger)
		if rec := get(t, open, "/api/v1/groups", "anything"); rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})
}
