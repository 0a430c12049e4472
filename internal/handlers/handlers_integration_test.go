package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"fruitbasket/internal/handlers"
	"fruitbasket/internal/models"
	"fruitbasket/internal/repositories"
	"fruitbasket/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services wired, plus a small seeded catalog.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.Fruit{}, &models.User{}, &models.Favorite{})
	assert.NoError(t, err)

	fruitRepo := repositories.NewGORMFruitRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	allocator, err := services.NewUserIDAllocator(userRepo)
	assert.NoError(t, err)

	catalogService := services.NewCatalogService(fruitRepo, nil)
	userService := services.NewUserService(userRepo, allocator, nil)
	favoriteService := services.NewFavoriteService(userRepo, fruitRepo, nil)

	fruitHandler := handlers.NewFruitHandler(catalogService)
	userHandler := handlers.NewUserHandler(userService, favoriteService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	fruitHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1)

	seedFruitsForTest(t, fruitRepo)
	return app
}

// seedFruitsForTest populates the fruit repository for tests.
func seedFruitsForTest(t *testing.T, repo repositories.FruitRepository) {
	t.Helper()
	fruits := []models.Fruit{
		{Name: "Apple", Taste: "Sweet and crisp", Description: "A classic orchard fruit", Calories: 95,
			Macros: models.Macros{Carbs: 25, Protein: 0.5, Fat: 0.3, Fiber: 4.4}},
		{Name: "Lemon", Taste: "Sour", Description: "A tangy citrus fruit", Calories: 17,
			Macros: models.Macros{Carbs: 5.4, Protein: 0.6, Fat: 0.2, Fiber: 1.6}},
		{Name: "Mango", Taste: "Sweet and tropical", Description: "A juicy stone fruit", Calories: 202,
			Macros: models.Macros{Carbs: 50, Protein: 2.8, Fat: 1.3, Fiber: 5.4}},
	}
	for i := range fruits {
		assert.NoError(t, repo.Create(&fruits[i]))
	}
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

func decodeList(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var l []map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&l))
	return l
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestFruitEndpoints(t *testing.T) {
	app := setupApp(t)

	// Full catalog.
	resp := doRequest(t, app, http.MethodGet, "/api/v1/fruits", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 3)

	// Calorie bound AND search clause compose.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fruits?minCalories=50&search=apple", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	fruits := decodeList(t, resp)
	assert.Len(t, fruits, 1)
	assert.Equal(t, "Apple", fruits[0]["name"])

	// Upper bound alone.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fruits?maxCalories=100", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 2)

	// Search matches the description field too.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fruits?search=TANGY", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	fruits = decodeList(t, resp)
	assert.Len(t, fruits, 1)
	assert.Equal(t, "Lemon", fruits[0]["name"])

	// No match is an empty array, not an error.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fruits?search=durian", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 0)

	// Non-integer bound is rejected.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fruits?minCalories=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Name search, case-insensitive.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fruits/apple", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	fruits = decodeList(t, resp)
	assert.Len(t, fruits, 1)
	assert.Equal(t, "Apple", fruits[0]["name"])

	// Name search miss is 404, unlike the list query.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/fruits/dragonfruit", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No fruits found matching dragonfruit", decodeMap(t, resp)["message"])
}

func TestCreateFruit(t *testing.T) {
	app := setupApp(t)

	newFruit := map[string]interface{}{
		"name":        "Papaya",
		"taste":       "Sweet and musky",
		"description": "A soft tropical fruit",
		"calories":    120,
		"macros": map[string]interface{}{
			"carbs":   30.0,
			"protein": 1.4,
			"fat":     0.8,
			"fiber":   5.0,
		},
	}
	resp := doRequest(t, app, http.MethodPost, "/api/v1/fruits", newFruit)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeMap(t, resp)
	assert.Equal(t, "Fruit created successfully", created["message"])
	assert.NotEmpty(t, created["fruitId"])

	resp = doRequest(t, app, http.MethodGet, "/api/v1/fruits/papaya", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	fruits := decodeList(t, resp)
	assert.Len(t, fruits, 1)
	assert.Equal(t, created["fruitId"], fruits[0]["_id"])

	// An empty body fails on every required field at once.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/fruits", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "Fruit validation Error", body["message"])
	assert.Len(t, body["errors"], 5)
}

func TestUserRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	// First registration gets userID 1.
	resp := doRequest(t, app, http.MethodPost, "/api/v1/users/register",
		map[string]string{"username": "ana", "email": "A@X.com"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.Equal(t, float64(1), body["userID"])
	assert.Equal(t, "ana", body["username"])

	// Same email, different username: still a duplicate.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/register",
		map[string]string{"username": "other", "email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username or email already exists", decodeMap(t, resp)["message"])

	// Second user gets userID 2.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/register",
		map[string]string{"username": "ben", "email": "b@x.com"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(2), decodeMap(t, resp)["userID"])

	// Login with a differently-cased email finds the same user.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/login",
		map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeMap(t, resp)
	assert.Equal(t, "Login successful", body["message"])
	assert.Equal(t, float64(1), body["userID"])
	assert.Equal(t, "ana", body["username"])
	assert.NotEmpty(t, body["_id"])

	// Unknown email.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/login",
		map[string]string{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No user found with email nobody@x.com", decodeMap(t, resp)["message"])

	// Missing email.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/login", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email is required", decodeMap(t, resp)["message"])

	// A non-string email gets the same treatment as a missing one.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/login",
		map[string]interface{}{"email": 5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email is required", decodeMap(t, resp)["message"])

	// Validation failures are collected, not short-circuited.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/register",
		map[string]string{"username": "ab", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decodeMap(t, resp)
	assert.Equal(t, "User validation Error", body["message"])
	assert.Len(t, body["errors"], 2)
}

func TestUserLookups(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/users/register",
		map[string]string{"username": "ana", "email": "a@x.com"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Listing exposes exactly the sanitized field set.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	users := decodeList(t, resp)
	assert.Len(t, users, 1)
	for _, key := range []string{"_id", "userID", "username", "email", "favorites"} {
		assert.Contains(t, users[0], key)
	}
	assert.Len(t, users[0], 5)
	assert.Equal(t, []interface{}{}, users[0]["favorites"])

	resp = doRequest(t, app, http.MethodGet, "/api/v1/users/1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ana", decodeMap(t, resp)["username"])

	resp = doRequest(t, app, http.MethodGet, "/api/v1/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid user ID", decodeMap(t, resp)["message"])

	resp = doRequest(t, app, http.MethodGet, "/api/v1/users/99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No user found with ID 99", decodeMap(t, resp)["message"])
}

func TestFavoritesEndpoints(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/users/register",
		map[string]string{"username": "ana", "email": "a@x.com"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/v1/fruits/apple", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	appleID := decodeList(t, resp)[0]["_id"].(string)

	// Empty favorites list is 200 with an empty array.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/users/1/favorites", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 0)

	// Add, then read back the full fruit record.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/1/favorites/"+appleID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Fruit added to favorite successfully", decodeMap(t, resp)["message"])

	resp = doRequest(t, app, http.MethodGet, "/api/v1/users/1/favorites", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	favorites := decodeList(t, resp)
	assert.Len(t, favorites, 1)
	assert.Equal(t, "Apple", favorites[0]["name"])

	// The favorites set never holds duplicates.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/1/favorites/"+appleID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Fruit is already in favorites", decodeMap(t, resp)["message"])

	// Malformed identifiers are rejected before any store access.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/1/favorites/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid fruit ID", decodeMap(t, resp)["message"])

	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/abc/favorites/"+appleID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid user ID", decodeMap(t, resp)["message"])

	// Well-formed but unknown fruit.
	missing := uuid.New().String()
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/1/favorites/"+missing, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No fruit found with ID "+missing, decodeMap(t, resp)["message"])

	// Remove restores the pre-add state.
	resp = doRequest(t, app, http.MethodDelete, "/api/v1/users/1/favorites/"+appleID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Fruit removed from favorites successfully", decodeMap(t, resp)["message"])

	resp = doRequest(t, app, http.MethodGet, "/api/v1/users/1/favorites", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 0)

	resp = doRequest(t, app, http.MethodDelete, "/api/v1/users/1/favorites/"+appleID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Fruit is not in favorites", decodeMap(t, resp)["message"])

	// Favorites of an unknown user.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/users/99/favorites", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No user found with ID 99", decodeMap(t, resp)["message"])
}

func TestRegistrationWithInitialFavorites(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/fruits/lemon", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	lemonID := decodeList(t, resp)[0]["_id"].(string)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/register", map[string]interface{}{
		"username":  "ana",
		"email":     "a@x.com",
		"favorites": []string{lemonID},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/api/v1/users/1/favorites", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	favorites := decodeList(t, resp)
	assert.Len(t, favorites, 1)
	assert.Equal(t, "Lemon", favorites[0]["name"])

	// A repeated favorite collapses to one set entry, not a conflict.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/register", map[string]interface{}{
		"username":  "cleo",
		"email":     "c@x.com",
		"favorites": []string{lemonID, lemonID},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(2), decodeMap(t, resp)["userID"])

	resp = doRequest(t, app, http.MethodGet, "/api/v1/users/2/favorites", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 1)

	// A malformed favorite element fails validation with its own message.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/users/register", map[string]interface{}{
		"username":  "ben",
		"email":     "b@x.com",
		"favorites": []string{"bogus"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, "User validation Error", body["message"])
	assert.Equal(t, []interface{}{"Favorite bogus is not a valid fruit ID"}, body["errors"])
}
