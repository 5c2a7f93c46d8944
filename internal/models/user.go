package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" bson:"name" gorm:"not null" validate:"required"`
	Email     string    `json:"email" bson:"email" gorm:"unique;not null" validate:"required,email"`
	Photo     string    `json:"photo" bson:"photo" gorm:"default:default.jpg"`
	Role      string    `json:"role" bson:"role" gorm:"not null;default:user" validate:"required,oneof=user guide lead-guide admin"`
	Password  string    `json:"-" bson:"password" gorm:"not null"`
	Active    bool      `json:"-" bson:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// HashPassword replaces the plain password with its bcrypt hash.
func (u *User) HashPassword() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies the password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserSummary is the public slice of a user embedded into tours and reviews.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Photo string `json:"photo,omitempty"`
	Role  string `json:"role,omitempty"`
}

// GuideSummary is what a tour shows for each guide.
func (u User) GuideSummary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Photo: u.Photo, Role: u.Role}
}

// AuthorSummary is what a review shows for its author.
func (u User) AuthorSummary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Photo: u.Photo}
}
