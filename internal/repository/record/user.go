package record

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/SeanSoulong/admin-bay/internal/domain"
	"github.com/SeanSoulong/admin-bay/internal/recordstore"
	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

const usersPath = "users"

// UserRepository implements repository.UserRepository using the record
// store. The dashboard only reads user profiles; they are written by the
// marketplace apps.
type UserRepository struct {
	store *recordstore.Client
}

// NewUserRepository creates a new record-store-backed user repository.
func NewUserRepository(store *recordstore.Client) *UserRepository {
	return &UserRepository{store: store}
}

// List returns all user profiles ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	children, err := r.store.ListChildren(ctx, usersPath)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, 0, len(children))
	for key, raw := range children {
		var u domain.User
		if err := json.Unmarshal(raw, &u); err != nil {
			continue
		}
		if u.ID == "" {
			u.ID = key
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

// GetByID retrieves a user profile by its record key.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	found, err := r.store.Get(ctx, usersPath+"/"+id, &u)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return nil, apperrors.NotFound("user", id)
	}
	if u.ID == "" {
		u.ID = id
	}
	return &u, nil
}
