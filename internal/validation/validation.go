// Package validation holds the pure sanitizers for inbound fruit and user
// payloads. Each sanitizer collects every violation into an ordered message
// list; a normalized record is produced only when the list is empty.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"fruitbasket/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// FruitInput is the untyped-friendly shape of a fruit creation payload.
// Pointer fields distinguish "missing" from zero values.
type FruitInput struct {
	Name        *string      `json:"name"`
	Taste       *string      `json:"taste"`
	Description *string      `json:"description"`
	Calories    *float64     `json:"calories"`
	Macros      *MacrosInput `json:"macros"`
}

// MacrosInput mirrors the nested macros object of a fruit payload.
type MacrosInput struct {
	Carbs   *float64 `json:"carbs"`
	Protein *float64 `json:"protein"`
	Fat     *float64 `json:"fat"`
	Fiber   *float64 `json:"fiber"`
}

// UserInput is the shape of a registration payload. Favorites stays untyped
// so that a non-array value and invalid elements each get their own message.
type UserInput struct {
	Username  *string     `json:"username"`
	Email     *string     `json:"email"`
	Favorites interface{} `json:"favorites"`
}

// SanitizeFruit validates in and returns a trimmed, coerced Fruit, or the
// full ordered list of violations.
func SanitizeFruit(in FruitInput) (*models.Fruit, []string) {
	var errs []string

	if in.Name == nil || *in.Name == "" {
		errs = append(errs, "Fruit name is required")
	}

	if in.Taste == nil || *in.Taste == "" {
		errs = append(errs, "Fruit taste is required")
	} else if utf8.RuneCountInString(*in.Taste) > 50 {
		errs = append(errs, "Fruit taste must be at least 1 character and at most 50 characters")
	}

	if in.Description == nil || *in.Description == "" {
		errs = append(errs, "Fruit description is required")
	} else if utf8.RuneCountInString(*in.Description) > 200 {
		errs = append(errs, "Fruit description must be at least 1 character and at most 200 characters")
	}

	if in.Calories == nil {
		errs = append(errs, "Fruit calories is required")
	} else if *in.Calories != math.Trunc(*in.Calories) || *in.Calories < 0 || *in.Calories > 1000 {
		errs = append(errs, "Fruit calories must be a non-negative number and at most 1000")
	}

	if in.Macros == nil {
		errs = append(errs, "Fruit macros is required and must be an object")
	} else {
		errs = appendMacroErrors(errs, "carbs", in.Macros.Carbs)
		errs = appendMacroErrors(errs, "protein", in.Macros.Protein)
		errs = appendMacroErrors(errs, "fat", in.Macros.Fat)
		errs = appendMacroErrors(errs, "fiber", in.Macros.Fiber)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &models.Fruit{
		Name:        strings.TrimSpace(*in.Name),
		Taste:       strings.TrimSpace(*in.Taste),
		Description: strings.TrimSpace(*in.Description),
		Calories:    int(*in.Calories),
		Macros: models.Macros{
			Carbs:   *in.Macros.Carbs,
			Protein: *in.Macros.Protein,
			Fat:     *in.Macros.Fat,
			Fiber:   *in.Macros.Fiber,
		},
	}, nil
}

func appendMacroErrors(errs []string, field string, value *float64) []string {
	if value == nil {
		return append(errs, fmt.Sprintf("Fruit macros %s is required", field))
	}
	if *value < 0 || *value > 1000 {
		return append(errs, fmt.Sprintf("Fruit macros %s must be a non-negative number and at most 1000", field))
	}
	return errs
}

// SanitizeUser validates in and returns a User with the username trimmed,
// the email trimmed and lower-cased, and favorites coerced to fruit IDs.
// The returned user carries no ID and no userID; the caller assigns those.
func SanitizeUser(in UserInput) (*models.User, []string) {
	var errs []string

	if in.Username == nil || *in.Username == "" {
		errs = append(errs, "Username is required")
	} else if utf8.RuneCountInString(strings.TrimSpace(*in.Username)) < 3 {
		errs = append(errs, "Username must be at least 3 characters long")
	}

	if in.Email == nil || *in.Email == "" {
		errs = append(errs, "Email is required")
	} else if validate.Var(*in.Email, "email") != nil {
		errs = append(errs, "Email must be a valid email address")
	}

	favorites := []string{}
	if in.Favorites != nil {
		elems, ok := in.Favorites.([]interface{})
		if !ok {
			errs = append(errs, "Favorites must be an array")
		} else {
			seen := make(map[string]struct{}, len(elems))
			for _, elem := range elems {
				id, ok := elem.(string)
				if !ok || uuid.Validate(id) != nil {
					errs = append(errs, fmt.Sprintf("Favorite %v is not a valid fruit ID", elem))
					continue
				}
				// Favorites are a set; a repeated ID keeps its first position.
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				favorites = append(favorites, id)
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &models.User{
		Username:  strings.TrimSpace(*in.Username),
		Email:     strings.ToLower(strings.TrimSpace(*in.Email)),
		Favorites: favorites,
	}, nil
}
