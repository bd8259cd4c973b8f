// Package model defines database models
package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Enabled      bool   `gorm:"default:true" json:"enabled"`

	CreatedAt time.Time `json:"created_at"`

	Files []File `gorm:"foreignKey:UserID" json:"-"`
}
