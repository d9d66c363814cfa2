package services

import (
	"context"
	"errors"
	"testing"

	"github.com/facesocial/facesocial-backend/internal/repos"
	"github.com/facesocial/facesocial-backend/internal/requestdata"
)

func TestGetMe(t *testing.T) {
	gormDB := newTestDB(t)
	log := newTestLogger(t)
	us := NewUserService(gormDB, log, repos.NewUserRepo(gormDB, log))

	user := seedUser(t, gormDB, "alice", nil)
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID:   user.ID,
		Username: user.Username,
	})

	got, err := us.GetMe(ctx)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("got user %s, want %s", got.ID, user.ID)
	}

	if _, err := us.GetMe(context.Background()); err == nil {
		t.Fatal("GetMe without request data must fail")
	}
}

func TestUpdatePreferredTheme(t *testing.T) {
	gormDB := newTestDB(t)
	log := newTestLogger(t)
	us := NewUserService(gormDB, log, repos.NewUserRepo(gormDB, log))

	user := seedUser(t, gormDB, "alice", nil)
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID:   user.ID,
		Username: user.Username,
	})

	updated, err := us.UpdatePreferredTheme(ctx, "Dark")
	if err != nil {
		t.Fatalf("UpdatePreferredTheme: %v", err)
	}
	if updated.PreferredTheme != "dark" {
		t.Fatalf("theme = %s, want dark", updated.PreferredTheme)
	}

	_, err = us.UpdatePreferredTheme(ctx, "neon")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, ok := vErr.Fields["preferredTheme"]; !ok {
		t.Fatalf("fields = %v", vErr.Fields)
	}

	// The invalid attempt must not overwrite the stored preference.
	got, err := us.GetMe(ctx)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if got.PreferredTheme != "dark" {
		t.Fatalf("theme after rejected update = %s, want dark", got.PreferredTheme)
	}
}
