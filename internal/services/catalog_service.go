package services

import (
	"log"

	"fruitbasket/internal/apperrors"
	"fruitbasket/internal/models"
	"fruitbasket/internal/repositories"
	"fruitbasket/pkg/rabbitmq"
)

// CatalogService handles business logic for the fruit catalog.
type CatalogService struct {
	repo     repositories.FruitRepository
	mqClient *rabbitmq.Client
}

// NewCatalogService creates a new CatalogService. mqClient may be nil, in
// which case no events are published.
func NewCatalogService(repo repositories.FruitRepository, mqClient *rabbitmq.Client) *CatalogService {
	return &CatalogService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// ListFruits returns all fruits matching the filter. An empty result is not
// an error.
func (s *CatalogService) ListFruits(filter repositories.CatalogFilter) ([]models.Fruit, error) {
	fruits, err := s.repo.GetAll(filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Error fetching fruits", err)
	}
	return fruits, nil
}

// FindByName returns all fruits whose name matches name, case-insensitively.
// Unlike ListFruits, zero matches is a NotFound error.
func (s *CatalogService) FindByName(name string) ([]models.Fruit, error) {
	fruits, err := s.repo.FindByName(name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Error fetching fruit", err)
	}
	if len(fruits) == 0 {
		return nil, apperrors.Newf(apperrors.NotFound, "No fruits found matching %s", name)
	}
	return fruits, nil
}

// CreateFruit persists a sanitized fruit and returns it with its assigned ID.
func (s *CatalogService) CreateFruit(fruit *models.Fruit) (*models.Fruit, error) {
	if err := s.repo.Create(fruit); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Error creating fruit", err)
	}

	s.publish("fruit.created", map[string]interface{}{
		"fruitId": fruit.ID,
		"name":    fruit.Name,
	})
	return fruit, nil
}

// SeedIfEmpty populates the catalog with the given fruits when it holds no
// records yet.
func (s *CatalogService) SeedIfEmpty(fruits []models.Fruit) error {
	count, err := s.repo.Count()
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "Error counting fruits", err)
	}
	if count > 0 {
		log.Println("Fruits collection already initialized")
		return nil
	}

	for i := range fruits {
		if err := s.repo.Create(&fruits[i]); err != nil {
			return apperrors.Wrap(apperrors.Internal, "Error seeding fruits", err)
		}
	}
	log.Println("Fruits initialized with sample data successfully")
	return nil
}

func (s *CatalogService) publish(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", event, err)
	}
}
