package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Access levels assigned to users. The level comes from the identity
// provider's access_level claim and defaults to a regular user.
const (
	AccessLevelUser  = "user"
	AccessLevelAdmin = "admin"
)

type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	FirebaseUID  string    `json:"firebase_uid,omitempty" gorm:"index"` // Empty for local email/password users
	Email        string    `json:"email" gorm:"uniqueIndex"`            // Ensure email is unique across all users
	GivenName    string    `json:"given_name"`
	FamilyName   string    `json:"family_name"`
	PasswordHash string    `json:"-"` // Store hashed password, ignore for JSON serialization
	AccessLevel  string    `json:"access_level" gorm:"size:10;default:user;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns a fresh UUID when none was supplied
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.AccessLevel == AccessLevelAdmin
}

// FullName returns the user's display name for notification bodies
func (u *User) FullName() string {
	return strings.TrimSpace(u.GivenName + " " + u.FamilyName)
}

// UserCompact is the author summary embedded in tickets and responses
type UserCompact struct {
	ID          string `json:"id"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	Email       string `json:"email"`
	AccessLevel string `json:"access_level"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:          u.ID,
		GivenName:   u.GivenName,
		FamilyName:  u.FamilyName,
		Email:       u.Email,
		AccessLevel: u.AccessLevel,
	}
}

type SignupRequest struct {
	GivenName  string `json:"given_name" validate:"required,min=1,max=50"`
	FamilyName string `json:"family_name" validate:"required,min=1,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	AccessLevel string `json:"access_level"`
	jwt.RegisteredClaims
}
