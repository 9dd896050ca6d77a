package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a registry entry. Nom is the lookup identifier (unique);
// the remaining fields are purely descriptive.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nom       string    `gorm:"uniqueIndex;not null"`
	Telephone *string
	Email     *string
	Adresse   *string
	Actif     bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
