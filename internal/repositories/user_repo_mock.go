package repositories

import (
	"sync"

	"fruitbasket/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// It resolves favorite fruit records through the given fruit repository,
// the way the store-side join does.
type MockUserRepository struct {
	users  map[int]models.User
	fruits FruitRepository
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository(fruits FruitRepository) *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int]models.User),
		fruits: fruits,
	}
}

// Create adds a new user, enforcing the uniqueness constraints.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email || u.UserID == user.UserID {
			return ErrDuplicate
		}
	}
	seen := make(map[string]struct{}, len(user.Favorites))
	for _, id := range user.Favorites {
		if _, dup := seen[id]; dup {
			return ErrDuplicate
		}
		seen[id] = struct{}{}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Favorites == nil {
		user.Favorites = []string{}
	}
	r.users[user.UserID] = *user
	return nil
}

// GetByUserID returns a user by their sequential userID, or (nil, nil).
func (r *MockUserRepository) GetByUserID(userID int) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// GetByEmail returns a user by their email, or (nil, nil).
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

// FindByUsernameOrEmail returns a user matching either field, or (nil, nil).
func (r *MockUserRepository) FindByUsernameOrEmail(username, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

// GetAll returns all users.
func (r *MockUserRepository) GetAll() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

// MaxUserID returns the highest assigned userID, or 0 when empty.
func (r *MockUserRepository) MaxUserID() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	maxID := 0
	for id := range r.users {
		if id > maxID {
			maxID = id
		}
	}
	return maxID, nil
}

// AddFavorite appends fruitID to the user's favorites set.
func (r *MockUserRepository) AddFavorite(userID int, fruitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	for _, id := range user.Favorites {
		if id == fruitID {
			return ErrDuplicate
		}
	}
	user.Favorites = append(user.Favorites, fruitID)
	r.users[userID] = user
	return nil
}

// RemoveFavorite removes fruitID from the user's favorites set.
func (r *MockUserRepository) RemoveFavorite(userID int, fruitID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	for i, id := range user.Favorites {
		if id == fruitID {
			user.Favorites = append(user.Favorites[:i], user.Favorites[i+1:]...)
			r.users[userID] = user
			return nil
		}
	}
	return ErrNotFound
}

// GetFavoriteFruits returns the fruit records in the user's favorites set.
func (r *MockUserRepository) GetFavoriteFruits(userID int) ([]models.Fruit, error) {
	r.mu.RLock()
	user, ok := r.users[userID]
	r.mu.RUnlock()
	if !ok {
		return []models.Fruit{}, nil
	}

	fruits := make([]models.Fruit, 0, len(user.Favorites))
	for _, fruitID := range user.Favorites {
		fruit, err := r.fruits.GetByID(fruitID)
		if err != nil {
			return nil, err
		}
		if fruit != nil {
			fruits = append(fruits, *fruit)
		}
	}
	return fruits, nil
}
