package models

// Macros holds the macronutrient breakdown of a fruit, in grams.
type Macros struct {
	Carbs   float64 `json:"carbs" validate:"min=0,max=1000"`
	Protein float64 `json:"protein" validate:"min=0,max=1000"`
	Fat     float64 `json:"fat" validate:"min=0,max=1000"`
	Fiber   float64 `json:"fiber" validate:"min=0,max=1000"`
}

// Fruit represents a fruit in the catalog. Fruits are immutable after
// creation; there is no update or delete path.
type Fruit struct {
	ID          string `json:"_id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=1"`
	Taste       string `json:"taste" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"required,min=1,max=200"`
	Calories    int    `json:"calories" validate:"min=0,max=1000"`
	Macros      Macros `json:"macros" gorm:"embedded;embeddedPrefix:macros_"`
}
