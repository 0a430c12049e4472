package repositories

import (
	"fruitbasket/internal/models"
)

// CatalogFilter holds the optional, independently composable filters for
// listing the catalog. Nil calorie bounds and an empty search mean "no
// constraint"; the search term matches name, taste or description,
// case-insensitively.
type CatalogFilter struct {
	MinCalories *int
	MaxCalories *int
	Search      string
}

// FruitRepository defines the interface for fruit data access.
// Lookup methods return (nil, nil) when no record matches.
type FruitRepository interface {
	GetAll(filter CatalogFilter) ([]models.Fruit, error)
	FindByName(name string) ([]models.Fruit, error)
	GetByID(id string) (*models.Fruit, error)
	Create(fruit *models.Fruit) error
	Count() (int64, error)
}
