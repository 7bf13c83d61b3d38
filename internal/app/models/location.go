package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is an external place sourced from a third-party places API,
// identified by its external place id.
type Location struct {
	ID            uuid.UUID `json:"id"`
	GooglePlaceID string    `json:"googlePlaceId"`
	Name          string    `json:"name"`
	Address       *string   `json:"address,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	Image         *string   `json:"image,omitempty"`
	Types         []string  `json:"types"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateLocationRequest struct {
	GooglePlaceID string   `json:"googlePlaceId" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Address       *string  `json:"address"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Image         *string  `json:"image"`
	Types         []string `json:"types"`
}
