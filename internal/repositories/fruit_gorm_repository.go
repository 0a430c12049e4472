package repositories

import (
	"errors"
	"fmt"
	"strings"

	"fruitbasket/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// schemaValidate enforces the collection-level constraints on writes, the
// way the document store's own schema validators would.
var schemaValidate = validator.New()

// GORMFruitRepository is a GORM implementation of FruitRepository.
type GORMFruitRepository struct {
	db *gorm.DB
}

// NewGORMFruitRepository creates a new instance of GORMFruitRepository.
func NewGORMFruitRepository(db *gorm.DB) *GORMFruitRepository {
	return &GORMFruitRepository{
		db: db,
	}
}

// GetAll retrieves all fruits matching the filter from the database.
func (r *GORMFruitRepository) GetAll(filter CatalogFilter) ([]models.Fruit, error) {
	tx := r.db.Model(&models.Fruit{})
	if filter.MinCalories != nil {
		tx = tx.Where("calories >= ?", *filter.MinCalories)
	}
	if filter.MaxCalories != nil {
		tx = tx.Where("calories <= ?", *filter.MaxCalories)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(taste) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern)
	}

	fruits := make([]models.Fruit, 0)
	if err := tx.Find(&fruits).Error; err != nil {
		return nil, fmt.Errorf("failed to get fruits: %w", err)
	}
	return fruits, nil
}

// FindByName retrieves all fruits whose name contains name, case-insensitively.
func (r *GORMFruitRepository) FindByName(name string) ([]models.Fruit, error) {
	pattern := "%" + strings.ToLower(name) + "%"

	fruits := make([]models.Fruit, 0)
	if err := r.db.Where("LOWER(name) LIKE ?", pattern).Find(&fruits).Error; err != nil {
		return nil, fmt.Errorf("failed to find fruits by name %s: %w", name, err)
	}
	return fruits, nil
}

// GetByID retrieves a single fruit by its ID, or (nil, nil) if absent.
func (r *GORMFruitRepository) GetByID(id string) (*models.Fruit, error) {
	var fruit models.Fruit
	if err := r.db.First(&fruit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fruit by ID %s: %w", id, err)
	}
	return &fruit, nil
}

// Create creates a new fruit in the database.
func (r *GORMFruitRepository) Create(fruit *models.Fruit) error {
	if fruit.ID == "" {
		fruit.ID = uuid.New().String()
	}
	if err := schemaValidate.Struct(fruit); err != nil {
		return fmt.Errorf("fruit violates collection schema: %w", err)
	}
	if err := r.db.Create(fruit).Error; err != nil {
		return fmt.Errorf("failed to create fruit: %w", err)
	}
	return nil
}

// Count returns the number of fruits in the catalog.
func (r *GORMFruitRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Fruit{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count fruits: %w", err)
	}
	return count, nil
}
