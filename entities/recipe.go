// File: entities/recipe.go
package entities

type Recipe struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string  `gorm:"type:text;not null" json:"title"`
	Ingredients string  `gorm:"type:text;not null" json:"ingredients"`
	Steps       string  `gorm:"type:text;not null" json:"steps"`
	Category    string  `gorm:"type:text;not null" json:"category"`
	ImageURL    *string `gorm:"type:text" json:"image_url,omitempty"`
	IsTried     int     `gorm:"not null;default:0" json:"is_tried"`
}

func (Recipe) TableName() string {
	return "recipes"
}
