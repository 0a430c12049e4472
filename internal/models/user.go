package models

// User represents a registered user. UserID is the public sequential
// identifier assigned at registration; ID is the store-generated one.
type User struct {
	ID        string   `json:"_id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID    int      `json:"userID" gorm:"uniqueIndex"`
	Username  string   `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string   `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Favorites []string `json:"favorites" gorm:"-"`
}

// Favorite is one entry of a user's favorites set, stored as a join row.
// The composite primary key guarantees the set property at the store level.
type Favorite struct {
	UserID  int    `gorm:"primaryKey;autoIncrement:false"`
	FruitID string `gorm:"primaryKey;type:varchar(36)"`
}
