package store

import (
	"context"

	"github.com/icetlab/assettrack/auth"
	"github.com/uptrace/bun"
)

// Users reads and writes account rows. It backs the login flow through the
// auth.CredentialStore interface.
type Users struct {
	db *bun.DB
}

func NewUsers(db *bun.DB) *Users {
	return &Users{db: db}
}

var _ auth.CredentialStore = (*Users)(nil)

// FindActiveByUsername implements auth.CredentialStore. A missing or inactive
// account comes back as (nil, nil); the caller owns the error shape.
func (u *Users) FindActiveByUsername(ctx context.Context, username string) (*auth.UserRecord, error) {
	user := new(User)
	err := u.db.NewSelect().Model(user).
		Where("usr.username = ?", username).
		Where("usr.is_active = ?", true).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, internal(err, "failed to query user")
	}

	return &auth.UserRecord{
		ID:           user.ID,
		Username:     user.Username,
		FullName:     user.FullName,
		Email:        user.Email,
		Role:         user.Role,
		PasswordHash: user.PasswordHash,
		Active:       user.Active,
	}, nil
}

// GetByID returns the account row, deleted or not excluded by soft delete.
func (u *Users) GetByID(ctx context.Context, id int64) (*User, error) {
	user := new(User)
	err := u.db.NewSelect().Model(user).
		Where("usr.user_id = ?", id).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("user not found")
		}
		return nil, internal(err, "failed to query user")
	}
	return user, nil
}

// HasAdmin reports whether any active admin account exists.
func (u *Users) HasAdmin(ctx context.Context) (bool, error) {
	count, err := u.db.NewSelect().Model((*User)(nil)).
		Where("usr.role = ?", auth.RoleAdmin).
		Where("usr.is_active = ?", true).
		Count(ctx)
	if err != nil {
		return false, internal(err, "failed to count admins")
	}
	return count > 0, nil
}

// Create inserts a new account. Username collisions surface as a conflict.
func (u *Users) Create(ctx context.Context, user *User) (*User, error) {
	exists, err := u.db.NewSelect().Model((*User)(nil)).
		Where("usr.username = ?", user.Username).
		Count(ctx)
	if err != nil {
		return nil, internal(err, "failed to check username")
	}
	if exists > 0 {
		return nil, conflict("username already taken")
	}

	if _, err := u.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, internal(err, "failed to create user")
	}
	return user, nil
}
