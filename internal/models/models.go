package models

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string    `gorm:"not null"                 json:"title"`
	Version  uint      `gorm:"not null;default:1"       json:"version"`
	Products []Product `gorm:"foreignKey:CategoryID"    json:"products,omitempty"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null"                 json:"title"`
	Description string    `gorm:"not null"                 json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Version     uint      `gorm:"not null;default:1"       json:"version"`
	CategoryID  uint      `gorm:"index;not null"           json:"category_id"`
	Category    *Category `json:"category,omitempty"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}
