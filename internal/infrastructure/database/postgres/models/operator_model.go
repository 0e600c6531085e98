package models

import (
	"time"

	"github.com/google/uuid"
)

// OperatorModel represents the database model for Operator
type OperatorModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username       string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	DisplayName    string    `gorm:"type:varchar(255);not null"`
	PasswordHashed string    `gorm:"type:varchar(255);not null"`
	Role           string    `gorm:"type:varchar(50);not null;default:'operator'"`
	IsActive       bool      `gorm:"default:true;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (OperatorModel) TableName() string {
	return "operators"
}
