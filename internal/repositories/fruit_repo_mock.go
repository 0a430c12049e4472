package repositories

import (
	"strings"
	"sync"

	"fruitbasket/internal/models"

	"github.com/google/uuid"
)

// MockFruitRepository is an in-memory implementation of FruitRepository.
type MockFruitRepository struct {
	fruits map[string]models.Fruit
	mu     sync.RWMutex
}

// NewMockFruitRepository creates a new instance of MockFruitRepository.
func NewMockFruitRepository() *MockFruitRepository {
	return &MockFruitRepository{
		fruits: make(map[string]models.Fruit),
	}
}

// GetAll returns all fruits matching the filter.
func (r *MockFruitRepository) GetAll(filter CatalogFilter) ([]models.Fruit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.Fruit, 0, len(r.fruits))
	for _, f := range r.fruits {
		if filter.MinCalories != nil && f.Calories < *filter.MinCalories {
			continue
		}
		if filter.MaxCalories != nil && f.Calories > *filter.MaxCalories {
			continue
		}
		if filter.Search != "" && !matchesSearch(f, filter.Search) {
			continue
		}
		matches = append(matches, f)
	}
	return matches, nil
}

func matchesSearch(f models.Fruit, search string) bool {
	term := strings.ToLower(search)
	return strings.Contains(strings.ToLower(f.Name), term) ||
		strings.Contains(strings.ToLower(f.Taste), term) ||
		strings.Contains(strings.ToLower(f.Description), term)
}

// FindByName returns all fruits whose name contains name, case-insensitively.
func (r *MockFruitRepository) FindByName(name string) ([]models.Fruit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term := strings.ToLower(name)
	matches := make([]models.Fruit, 0)
	for _, f := range r.fruits {
		if strings.Contains(strings.ToLower(f.Name), term) {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

// GetByID returns a fruit by its ID, or (nil, nil) if absent.
func (r *MockFruitRepository) GetByID(id string) (*models.Fruit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fruit, ok := r.fruits[id]
	if !ok {
		return nil, nil
	}
	return &fruit, nil
}

// Create adds a new fruit.
func (r *MockFruitRepository) Create(fruit *models.Fruit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fruit.ID == "" {
		fruit.ID = uuid.New().String()
	}
	r.fruits[fruit.ID] = *fruit
	return nil
}

// Count returns the number of stored fruits.
func (r *MockFruitRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.fruits)), nil
}
