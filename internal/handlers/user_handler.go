package handlers

import (
	"log"
	"strconv"

	"fruitbasket/internal/apperrors"
	"fruitbasket/internal/services"
	"fruitbasket/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserHandler handles HTTP requests for users and their favorites.
type UserHandler struct {
	users     *services.UserService
	favorites *services.FavoriteService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, favorites *services.FavoriteService) *UserHandler {
	return &UserHandler{
		users:     users,
		favorites: favorites,
	}
}

// RegisterRoutes registers the user routes with the Fiber app. The literal
// register/login segments are registered before the :userID parameter.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Post("/login", h.HandleLogin)
	userRoutes.Get("/:userID", h.HandleGetUserByUserID)
	userRoutes.Get("/:userID/favorites", h.HandleGetFavorites)
	userRoutes.Post("/:userID/favorites/:fruitId", h.HandleAddFavorite)
	userRoutes.Delete("/:userID/favorites/:fruitId", h.HandleRemoveFavorite)
}

// LoginRequest represents the request body for login. Email stays untyped
// so that a non-string value maps to the missing-email case instead of a
// body decode failure.
type LoginRequest struct {
	Email interface{} `json:"email"`
}

// HandleRegister validates, sanitizes and persists a new user.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var in validation.UserInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{
			Message: "Invalid request body",
			Error:   err.Error(),
		})
	}

	user, violations := validation.SanitizeUser(in)
	if violations != nil {
		return renderError(c, apperrors.NewValidation("User validation Error", violations))
	}

	created, err := h.users.Register(user)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		Message:  "User registered successfully",
		UserID:   created.UserID,
		Username: created.Username,
	})
}

// HandleLogin looks a user up by email. No credential is involved.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{
			Message: "Invalid request body",
			Error:   err.Error(),
		})
	}
	email, ok := req.Email.(string)
	if !ok || email == "" {
		return renderError(c, apperrors.New(apperrors.BadRequest, "Email is required"))
	}

	user, err := h.users.Login(email)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Message:  "Login successful",
		UserID:   user.UserID,
		Username: user.Username,
		ID:       user.ID,
	})
}

// HandleGetUsers lists all users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.users.GetAllUsers()
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// HandleGetUserByUserID returns a single user by their sequential userID.
func (h *UserHandler) HandleGetUserByUserID(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return renderError(c, err)
	}

	user, err := h.users.GetByUserID(userID)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// HandleGetFavorites returns the full fruit records of a user's favorites.
func (h *UserHandler) HandleGetFavorites(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return renderError(c, err)
	}

	fruits, err := h.favorites.List(userID)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fruits)
}

// HandleAddFavorite adds a fruit to a user's favorites set.
func (h *UserHandler) HandleAddFavorite(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return renderError(c, err)
	}
	fruitID, err := parseFruitID(c)
	if err != nil {
		return renderError(c, err)
	}

	if err := h.favorites.Add(userID, fruitID); err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(MessageResponse{
		Message: "Fruit added to favorite successfully",
	})
}

// HandleRemoveFavorite removes a fruit from a user's favorites set.
func (h *UserHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return renderError(c, err)
	}
	fruitID, err := parseFruitID(c)
	if err != nil {
		return renderError(c, err)
	}

	if err := h.favorites.Remove(userID, fruitID); err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(MessageResponse{
		Message: "Fruit removed from favorites successfully",
	})
}

// parseUserID reads the :userID path parameter, enforcing the identifier
// format before any store access.
func parseUserID(c *fiber.Ctx) (int, error) {
	userID, err := strconv.Atoi(c.Params("userID"))
	if err != nil {
		return 0, apperrors.New(apperrors.BadRequest, "Invalid user ID")
	}
	return userID, nil
}

// parseFruitID reads the :fruitId path parameter, enforcing the identifier
// format before any store access.
func parseFruitID(c *fiber.Ctx) (string, error) {
	fruitID := c.Params("fruitId")
	if fruitID == "" {
		return "", apperrors.New(apperrors.BadRequest, "Fruit ID is required")
	}
	if uuid.Validate(fruitID) != nil {
		return "", apperrors.New(apperrors.BadRequest, "Invalid fruit ID")
	}
	return fruitID, nil
}
