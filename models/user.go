package models

import "time"

// Role yang dikenal: praktikan, asisten, admin
const (
	RolePraktikan = "praktikan"
	RoleAsisten   = "asisten"
	RoleAdmin     = "admin"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255); not null"`
	Nim       string `gorm:"type:varchar(50)"`
	Email     string `gorm:"type:varchar(255); unique;not null"`
	Password  string `gorm:"type:varchar(255); not null"`
	Role      string `gorm:"type:varchar(255); not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
