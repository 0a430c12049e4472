package repositories

import (
	"errors"

	"fruitbasket/internal/models"
)

// ErrDuplicate is returned when an insert violates a store-level uniqueness
// constraint (username, email, userID, or an existing favorite).
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound is returned by mutations whose target row does not exist.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user data access, including the
// favorites set. Lookup methods return (nil, nil) when no record matches.
type UserRepository interface {
	Create(user *models.User) error
	GetByUserID(userID int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	FindByUsernameOrEmail(username, email string) (*models.User, error)
	GetAll() ([]models.User, error)
	MaxUserID() (int, error)
	AddFavorite(userID int, fruitID string) error
	RemoveFavorite(userID int, fruitID string) error
	GetFavoriteFruits(userID int) ([]models.Fruit, error)
}
