package services

import (
	"errors"
	"log"
	"strings"

	"fruitbasket/internal/apperrors"
	"fruitbasket/internal/models"
	"fruitbasket/internal/repositories"
	"fruitbasket/pkg/rabbitmq"
)

// UserService handles registration, login and user lookups.
type UserService struct {
	userRepo  repositories.UserRepository
	allocator *UserIDAllocator
	mqClient  *rabbitmq.Client
}

// NewUserService creates a new UserService. mqClient may be nil, in which
// case no events are published.
func NewUserService(userRepo repositories.UserRepository, allocator *UserIDAllocator, mqClient *rabbitmq.Client) *UserService {
	return &UserService{
		userRepo:  userRepo,
		allocator: allocator,
		mqClient:  mqClient,
	}
}

// Register persists a sanitized user after the duplicate check and assigns
// the next sequential userID. The check-then-insert window is not atomic;
// the store's unique indexes are the backstop, and a racing insert surfaces
// as the same Conflict.
func (s *UserService) Register(user *models.User) (*models.User, error) {
	existing, err := s.userRepo.FindByUsernameOrEmail(user.Username, user.Email)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Error registering user", err)
	}
	if existing != nil {
		return nil, apperrors.New(apperrors.Conflict, "Username or email already exists")
	}

	user.UserID = s.allocator.Allocate()
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.New(apperrors.Conflict, "Username or email already exists")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Error registering user", err)
	}

	s.publish("user.registered", map[string]interface{}{
		"userID":   user.UserID,
		"username": user.Username,
	})
	return user, nil
}

// Login looks up a user by their trimmed, lower-cased email. No credential
// is checked; this is a lookup, not authentication.
func (s *UserService) Login(email string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Error logging in", err)
	}
	if user == nil {
		return nil, apperrors.Newf(apperrors.NotFound, "No user found with email %s", email)
	}
	return user, nil
}

// GetByUserID returns the user with the given sequential userID.
func (s *UserService) GetByUserID(userID int) (*models.User, error) {
	user, err := s.userRepo.GetByUserID(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Error fetching user", err)
	}
	if user == nil {
		return nil, apperrors.Newf(apperrors.NotFound, "No user found with ID %d", userID)
	}
	return user, nil
}

// GetAllUsers returns all users. Records never carry credential fields.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Error fetching users", err)
	}
	return users, nil
}

func (s *UserService) publish(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", event, err)
	}
}
