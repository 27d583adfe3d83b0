package model

import (
	"time"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
)

type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Name           string    `gorm:"type:varchar(64)"`
	Username       string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ProfilePicture string    `gorm:"column:profile_picture;type:varchar(512)"`
	CreatedAt      time.Time `gorm:"type:datetime"`
	UpdatedAt      time.Time `gorm:"type:datetime"`
}

func (User) TableName() string {
	return "user"
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:             m.ID,
		Name:           m.Name,
		Username:       m.Username,
		ProfilePicture: m.ProfilePicture,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
