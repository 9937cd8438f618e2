package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/ports/repository"
	"telegram-group-guardian/internal/usecase"
)

func TestGroupRegistration(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("registration creates the group and its subscription together", func(t *testing.T) {
		groups := newMemGroupRepo()
		subs := newMemSubRepo()
		gw := &mockGateway{}
		subUC := usecase.NewSubscriptionUseCase(30, 3, groups, subs, gw, newTestLogger())
		uc := usecase.NewGroupUseCase(groups, subUC, mockTxManager{}, newTestLogger())

		g, err := uc.Register(ctx, 100, "my group", now)
		if err != nil {
			t.Fatal(err)
		}
		if g.ID != 100 || g.Title != "my group" {
			t.Errorf("unexpected group: %+v", g)
		}

		sub, err := subs.FindByGroup(ctx, repository.NoTX, 100)
		if err != nil {
			t.Fatal(err)
		}
		if !sub.EndDate.Equal(now.Add(30 * 24 * time.Hour)) {
			t.Errorf("expected a 30-day window, got end=%v", sub.EndDate)
		}
		if sub.Warned {
			t.Error("a fresh subscription must not be pre-warned")
		}
	})

	t.Run("re-registering is reported, not duplicated", func(t *testing.T) {
		groups := newMemGroupRepo()
		subs := newMemSubRepo()
		subUC := usecase.NewSubscriptionUseCase(30, 3, groups, subs, &mockGateway{}, newTestLogger())
		uc := usecase.NewGroupUseCase(groups, subUC, mockTxManager{}, newTestLogger())

		if _, err := uc.Register(ctx, 100, "my group", now); err != nil {
			t.Fatal(err)
		}
		g, err := uc.Register(ctx, 100, "renamed", now.Add(time.Hour))
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		if g == nil || g.Title != "my group" {
			t.Error("expected the original registration back")
		}

		// The original subscription window is untouched.
		sub, _ := subs.FindByGroup(ctx, repository.NoTX, 100)
		if !sub.StartDate.Equal(now) {
			t.Error("re-registration must not reset the subscription")
		}
	})
}
