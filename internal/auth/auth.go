// Package auth is the session/role gate: exact-match credential check
// against the user collection and a per-chat session slot.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sojokerto/absensi-bot/internal/models"
	"github.com/sojokerto/absensi-bot/internal/storage"
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// response never leaks whether an account exists.
var ErrInvalidCredentials = errors.New("email atau password salah")

// Login checks email and password by exact match and, on success, stores the
// session for the chat. Failure leaves no state behind.
func Login(ctx context.Context, store storage.Store, chatID int64, email, password string) (*models.User, error) {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if u.Email == email && u.Password == password {
			if err := store.SetSession(ctx, chatID, u.ID); err != nil {
				return nil, fmt.Errorf("set session: %w", err)
			}
			return &u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Logout clears the chat's session slot unconditionally.
func Logout(ctx context.Context, store storage.Store, chatID int64) error {
	return store.ClearSession(ctx, chatID)
}

// CurrentUser resolves the chat's session to a user, or nil when the chat is
// not signed in.
func CurrentUser(ctx context.Context, store storage.Store, chatID int64) (*models.User, error) {
	u, err := store.GetSession(ctx, chatID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return u, err
}
