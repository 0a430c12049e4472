package repositories

import (
	"errors"
	"fmt"

	"fruitbasket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user and its initial favorites in the database.
// Returns ErrDuplicate when username, email or userID is already taken.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := schemaValidate.Struct(user); err != nil {
		return fmt.Errorf("user violates collection schema: %w", err)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		for _, fruitID := range user.Favorites {
			if err := tx.Create(&models.Favorite{UserID: user.UserID, FruitID: fruitID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUserID retrieves a user by their sequential userID, or (nil, nil) if
// absent. The favorites set is loaded alongside the record.
func (r *GORMUserRepository) GetByUserID(userID int) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by userID %d: %w", userID, err)
	}
	if err := r.loadFavorites(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email, or (nil, nil) if absent.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	if err := r.loadFavorites(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsernameOrEmail retrieves a user matching either field, or
// (nil, nil) if none does. Used by the registration duplicate check.
func (r *GORMUserRepository) FindByUsernameOrEmail(username, email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ? OR email = ?", username, email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by username or email: %w", err)
	}
	return &user, nil
}

// GetAll retrieves all users with their favorites sets.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := r.db.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}

	var rows []models.Favorite
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	byUser := make(map[int][]string)
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], row.FruitID)
	}
	for i := range users {
		users[i].Favorites = byUser[users[i].UserID]
		if users[i].Favorites == nil {
			users[i].Favorites = []string{}
		}
	}
	return users, nil
}

// MaxUserID returns the highest assigned userID, or 0 when no users exist.
func (r *GORMUserRepository) MaxUserID() (int, error) {
	var maxID int
	err := r.db.Model(&models.User{}).Select("COALESCE(MAX(user_id), 0)").Scan(&maxID).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query max userID: %w", err)
	}
	return maxID, nil
}

// AddFavorite appends fruitID to the user's favorites set. The insert is
// atomic; a concurrent duplicate surfaces as ErrDuplicate via the
// composite primary key.
func (r *GORMUserRepository) AddFavorite(userID int, fruitID string) error {
	err := r.db.Create(&models.Favorite{UserID: userID, FruitID: fruitID}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes fruitID from the user's favorites set. Returns
// ErrNotFound when the entry was not present.
func (r *GORMUserRepository) RemoveFavorite(userID int, fruitID string) error {
	res := r.db.Delete(&models.Favorite{}, "user_id = ? AND fruit_id = ?", userID, fruitID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetFavoriteFruits returns the full fruit records referenced by the user's
// favorites set, in no guaranteed order.
func (r *GORMUserRepository) GetFavoriteFruits(userID int) ([]models.Fruit, error) {
	fruits := make([]models.Fruit, 0)
	err := r.db.
		Joins("JOIN favorites ON favorites.fruit_id = fruits.id").
		Where("favorites.user_id = ?", userID).
		Find(&fruits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get favorite fruits for user %d: %w", userID, err)
	}
	return fruits, nil
}

func (r *GORMUserRepository) loadFavorites(user *models.User) error {
	favorites := []string{}
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ?", user.UserID).
		Pluck("fruit_id", &favorites).Error
	if err != nil {
		return fmt.Errorf("failed to load favorites for user %d: %w", user.UserID, err)
	}
	user.Favorites = favorites
	return nil
}
