package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sojokerto/absensi-bot/internal/auth"
	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage/memory"
)

const chatID = int64(100500)

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeeded()

	u, err := auth.Login(ctx, store, chatID, "admin@sekolah.edu", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Fatalf("want admin role, got %s", u.Role)
	}

	cur, err := auth.CurrentUser(ctx, store, chatID)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if cur == nil || cur.ID != u.ID {
		t.Fatalf("session not established: %+v", cur)
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeeded()

	// Unknown email and wrong password must be indistinguishable.
	_, errUnknown := auth.Login(ctx, store, chatID, "nobody@sekolah.edu", "admin123")
	_, errWrongPw := auth.Login(ctx, store, chatID, "admin@sekolah.edu", "wrong")

	if !errors.Is(errUnknown, auth.ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("error messages differ: %q vs %q", errUnknown, errWrongPw)
	}

	if cur, _ := auth.CurrentUser(ctx, store, chatID); cur != nil {
		t.Fatal("failed login must not leave a session behind")
	}
}

func TestLoginIsExactMatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeeded()

	// No trimming, no case folding.
	if _, err := auth.Login(ctx, store, chatID, "Admin@sekolah.edu", "admin123"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("case-folded email must not match, got %v", err)
	}
	if _, err := auth.Login(ctx, store, chatID, "admin@sekolah.edu", " admin123"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("padded password must not match, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeeded()

	if _, err := auth.Login(ctx, store, chatID, "admin@sekolah.edu", "admin123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := auth.Logout(ctx, store, chatID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if cur, _ := auth.CurrentUser(ctx, store, chatID); cur != nil {
		t.Fatal("session survived logout")
	}
	// logging out twice is fine
	if err := auth.Logout(ctx, store, chatID); err != nil {
		t.Fatalf("repeated logout: %v", err)
	}
}

func TestSessionPerChat(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSeeded()

	if _, err := auth.Login(ctx, store, 1, "admin@sekolah.edu", "admin123"); err != nil {
		t.Fatalf("chat 1 login: %v", err)
	}
	if _, err := auth.Login(ctx, store, 2, "budi.santoso@sekolah.edu", "guru123"); err != nil {
		t.Fatalf("chat 2 login: %v", err)
	}

	u1, _ := auth.CurrentUser(ctx, store, 1)
	u2, _ := auth.CurrentUser(ctx, store, 2)
	if u1 == nil || u2 == nil || u1.ID == u2.ID {
		t.Fatalf("chats must hold independent sessions: %+v %+v", u1, u2)
	}
}
