package handlers

// MessageResponse is the generic success/error body: a message, optional
// validation messages, and an optional parse-error detail.
type MessageResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// CreateFruitResponse is the body of a successful fruit creation.
type CreateFruitResponse struct {
	Message string `json:"message"`
	FruitID string `json:"fruitId"`
}

// RegisterResponse is the body of a successful registration.
type RegisterResponse struct {
	Message  string `json:"message"`
	UserID   int    `json:"userID"`
	Username string `json:"username"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Message  string `json:"message"`
	UserID   int    `json:"userID"`
	Username string `json:"username"`
	ID       string `json:"_id"`
}
