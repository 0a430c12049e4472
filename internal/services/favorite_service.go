package services

import (
	"errors"
	"log"

	"fruitbasket/internal/apperrors"
	"fruitbasket/internal/models"
	"fruitbasket/internal/repositories"
	"fruitbasket/pkg/rabbitmq"
)

// FavoriteService manages the favorites relationship between users and
// fruits: existence checks on both sides, the set property, and the atomic
// store mutation.
type FavoriteService struct {
	userRepo  repositories.UserRepository
	fruitRepo repositories.FruitRepository
	mqClient  *rabbitmq.Client
}

// NewFavoriteService creates a new FavoriteService. mqClient may be nil, in
// which case no events are published.
func NewFavoriteService(userRepo repositories.UserRepository, fruitRepo repositories.FruitRepository, mqClient *rabbitmq.Client) *FavoriteService {
	return &FavoriteService{
		userRepo:  userRepo,
		fruitRepo: fruitRepo,
		mqClient:  mqClient,
	}
}

// Add appends fruitID to the user's favorites set. The duplicate check races
// with concurrent appends; the join table's composite key catches the loser
// and it surfaces as the same Conflict.
func (s *FavoriteService) Add(userID int, fruitID string) error {
	user, err := s.lookupUser(userID, "Error adding favorite")
	if err != nil {
		return err
	}
	if err := s.lookupFruit(fruitID, "Error adding favorite"); err != nil {
		return err
	}
	for _, id := range user.Favorites {
		if id == fruitID {
			return apperrors.New(apperrors.Conflict, "Fruit is already in favorites")
		}
	}

	if err := s.userRepo.AddFavorite(userID, fruitID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperrors.New(apperrors.Conflict, "Fruit is already in favorites")
		}
		return apperrors.Wrap(apperrors.Internal, "Error adding favorite", err)
	}

	s.publish("favorite.added", userID, fruitID)
	return nil
}

// Remove deletes fruitID from the user's favorites set. The fruit must still
// exist in the catalog, not merely in the favorites list.
func (s *FavoriteService) Remove(userID int, fruitID string) error {
	user, err := s.lookupUser(userID, "Error removing favorite")
	if err != nil {
		return err
	}
	if err := s.lookupFruit(fruitID, "Error removing favorite"); err != nil {
		return err
	}
	present := false
	for _, id := range user.Favorites {
		if id == fruitID {
			present = true
			break
		}
	}
	if !present {
		return apperrors.New(apperrors.Conflict, "Fruit is not in favorites")
	}

	if err := s.userRepo.RemoveFavorite(userID, fruitID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.New(apperrors.Conflict, "Fruit is not in favorites")
		}
		return apperrors.Wrap(apperrors.Internal, "Error removing favorite", err)
	}

	s.publish("favorite.removed", userID, fruitID)
	return nil
}

// List returns the full fruit records in the user's favorites set, in no
// guaranteed order. A user with no favorites yields an empty slice.
func (s *FavoriteService) List(userID int) ([]models.Fruit, error) {
	if _, err := s.lookupUser(userID, "Error fetching favorites"); err != nil {
		return nil, err
	}

	fruits, err := s.userRepo.GetFavoriteFruits(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Error fetching favorites", err)
	}
	return fruits, nil
}

func (s *FavoriteService) lookupUser(userID int, context string) (*models.User, error) {
	user, err := s.userRepo.GetByUserID(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, context, err)
	}
	if user == nil {
		return nil, apperrors.Newf(apperrors.NotFound, "No user found with ID %d", userID)
	}
	return user, nil
}

func (s *FavoriteService) lookupFruit(fruitID string, context string) error {
	fruit, err := s.fruitRepo.GetByID(fruitID)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, context, err)
	}
	if fruit == nil {
		return apperrors.Newf(apperrors.NotFound, "No fruit found with ID %s", fruitID)
	}
	return nil
}

func (s *FavoriteService) publish(event string, userID int, fruitID string) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishEvent(event, map[string]interface{}{
		"userID":  userID,
		"fruitId": fruitID,
	})
	if err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", event, err)
	}
}
