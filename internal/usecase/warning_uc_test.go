package usecase_test

import (
	"context"
	"testing"
	"time"

	"telegram-group-guardian/internal/usecase"
)

func TestWarningUseCase(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("sequential warnings count up", func(t *testing.T) {
		uc := usecase.NewWarningUseCase(newMemWarningRepo(), newTestLogger())

		for i := 1; i <= 5; i++ {
			count, err := uc.Warn(ctx, 100, 42, "@alice", now)
			if err != nil {
				t.Fatalf("warn %d: unexpected error: %v", i, err)
			}
			if count != i {
				t.Errorf("warn %d: expected count %d, got %d", i, i, count)
			}
		}
	})

	t.Run("warnings for different users do not interfere", func(t *testing.T) {
		uc := usecase.NewWarningUseCase(newMemWarningRepo(), newTestLogger())

		if _, err := uc.Warn(ctx, 100, 1, "@a", now); err != nil {
			t.Fatal(err)
		}
		count, err := uc.Warn(ctx, 100, 2, "@b", now)
		if err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Errorf("expected second user to start at 1, got %d", count)
		}
	})

	t.Run("forgive floors at zero", func(t *testing.T) {
		uc := usecase.NewWarningUseCase(newMemWarningRepo(), newTestLogger())

		_, _ = uc.Warn(ctx, 100, 42, "@alice", now)
		_, _ = uc.Warn(ctx, 100, 42, "@alice", now)

		count, err := uc.Forgive(ctx, 100, 42, 10)
		if err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Errorf("expected floor at 0, got %d", count)
		}
	})

	t.Run("forgive on a never-warned user is a no-op returning 0", func(t *testing.T) {
		repo := newMemWarningRepo()
		uc := usecase.NewWarningUseCase(repo, newTestLogger())

		count, err := uc.Forgive(ctx, 100, 99, 1)
		if err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Errorf("expected 0, got %d", count)
		}
		if len(repo.store) != 0 {
			t.Error("expected no record to be created")
		}
	})

	t.Run("record persists at count zero", func(t *testing.T) {
		repo := newMemWarningRepo()
		uc := usecase.NewWarningUseCase(repo, newTestLogger())

		_, _ = uc.Warn(ctx, 100, 42, "@alice", now)
		_, _ = uc.Forgive(ctx, 100, 42, 1)

		if len(repo.store) != 1 {
			t.Fatal("expected record to survive un-warning to zero")
		}
		count, err := uc.Count(ctx, 100, 42)
		if err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Errorf("expected count 0, got %d", count)
		}
	})

	t.Run("count of unknown user reads as zero", func(t *testing.T) {
		uc := usecase.NewWarningUseCase(newMemWarningRepo(), newTestLogger())

		count, err := uc.Count(ctx, 100, 7)
		if err != nil {
			t.Fatal(err)
		}
		if count != 0 {
			t.Errorf("expected 0, got %d", count)
		}
	})
}
