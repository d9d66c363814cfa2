package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User is the identity record. FaceEmbeddings holds the serialized list of
// face vectors produced by the AI service; it is opaque to the database and
// only decoded in application memory.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string         `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email          string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password       string         `gorm:"not null;column:password" json:"-"`
	FirstName      string         `gorm:"not null;column:first_name" json:"firstName"`
	LastName       string         `gorm:"not null;column:last_name" json:"lastName"`
	PreferredTheme string         `gorm:"column:preferred_theme;default:system" json:"preferredTheme"`
	AvatarPath     string         `gorm:"column:avatar_path" json:"avatarPath"`
	FaceEmbeddings datatypes.JSON `gorm:"column:face_embeddings" json:"-"`
	CreatedAt      time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// EmbeddingVectors decodes the stored embeddings list. A user without face
// recognition has a null column and decodes to nil.
func (u *User) EmbeddingVectors() ([][]float64, error) {
	if len(u.FaceEmbeddings) == 0 {
		return nil, nil
	}
	var vectors [][]float64
	if err := json.Unmarshal(u.FaceEmbeddings, &vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (u *User) SetEmbeddingVectors(vectors [][]float64) error {
	if len(vectors) == 0 {
		u.FaceEmbeddings = nil
		return nil
	}
	raw, err := json.Marshal(vectors)
	if err != nil {
		return err
	}
	u.FaceEmbeddings = datatypes.JSON(raw)
	return nil
}

func (u *User) HasFaceRecognition() bool {
	return len(u.FaceEmbeddings) > 0
}

// PublicUser is the user shape returned by the auth endpoints.
type PublicUser struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	PreferredTheme     string    `json:"preferredTheme"`
	AvatarPath         string    `json:"avatarPath,omitempty"`
	HasFaceRecognition bool      `json:"hasFaceRecognition"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		PreferredTheme:     u.PreferredTheme,
		AvatarPath:         u.AvatarPath,
		HasFaceRecognition: u.HasFaceRecognition(),
	}
}
