package handlers

import (
	"log"
	"strconv"

	"fruitbasket/internal/apperrors"
	"fruitbasket/internal/repositories"
	"fruitbasket/internal/services"
	"fruitbasket/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// FruitHandler handles HTTP requests for the fruit catalog.
type FruitHandler struct {
	catalog *services.CatalogService
}

// NewFruitHandler creates a new FruitHandler.
func NewFruitHandler(catalog *services.CatalogService) *FruitHandler {
	return &FruitHandler{
		catalog: catalog,
	}
}

// RegisterRoutes registers the fruit routes with the Fiber app.
func (h *FruitHandler) RegisterRoutes(router fiber.Router) {
	fruitRoutes := router.Group("/fruits")
	fruitRoutes.Get("/", h.HandleListFruits)
	fruitRoutes.Post("/", h.HandleCreateFruit)
	fruitRoutes.Get("/:name", h.HandleGetFruitByName)
}

// HandleListFruits lists the catalog, filtered by the optional search,
// minCalories and maxCalories query parameters.
func (h *FruitHandler) HandleListFruits(c *fiber.Ctx) error {
	var filter repositories.CatalogFilter
	if raw := c.Query("minCalories"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return renderError(c, apperrors.New(apperrors.BadRequest, "minCalories must be an integer"))
		}
		filter.MinCalories = &n
	}
	if raw := c.Query("maxCalories"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return renderError(c, apperrors.New(apperrors.BadRequest, "maxCalories must be an integer"))
		}
		filter.MaxCalories = &n
	}
	filter.Search = c.Query("search")

	fruits, err := h.catalog.ListFruits(filter)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fruits)
}

// HandleGetFruitByName returns all fruits whose name matches the path
// parameter, case-insensitively; 404 when nothing matches.
func (h *FruitHandler) HandleGetFruitByName(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return renderError(c, apperrors.New(apperrors.BadRequest, "Fruit name is required"))
	}

	fruits, err := h.catalog.FindByName(name)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fruits)
}

// HandleCreateFruit validates, sanitizes and persists a new fruit.
func (h *FruitHandler) HandleCreateFruit(c *fiber.Ctx) error {
	var in validation.FruitInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing create fruit request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(MessageResponse{
			Message: "Invalid request body",
			Error:   err.Error(),
		})
	}

	fruit, violations := validation.SanitizeFruit(in)
	if violations != nil {
		return renderError(c, apperrors.NewValidation("Fruit validation Error", violations))
	}

	created, err := h.catalog.CreateFruit(fruit)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(CreateFruitResponse{
		Message: "Fruit created successfully",
		FruitID: created.ID,
	})
}
