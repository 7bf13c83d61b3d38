package models

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusPlanning  TripStatus = "PLANNING"
	TripStatusActive    TripStatus = "ACTIVE"
	TripStatusCompleted TripStatus = "COMPLETED"
)

// MaxPlanningTrips is the per-host cap on trips still in PLANNING.
const MaxPlanningTrips = 5

type Trip struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	City          *string    `json:"city,omitempty"`
	Status        TripStatus `json:"status"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	EstimatedTime *string    `json:"estimatedTime,omitempty"`
	HostID        uuid.UUID  `json:"hostId"`
	IsPrivate     bool       `json:"isPrivate"`
	MaxGuests     *int       `json:"maxGuests,omitempty"`
	TripImage     *string    `json:"tripImage,omitempty"`
	LocationOrder []string   `json:"locationOrder"`
	Locations     []Location `json:"locations,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type CreateTripRequest struct {
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	City          *string `json:"city"`
	StartTime     string  `json:"startTime" binding:"required"`
	EndTime       string  `json:"endTime" binding:"required"`
	EstimatedTime *string `json:"estimatedTime"`
	HostID        string  `json:"hostId" binding:"required"`
	MaxGuests     *int    `json:"maxGuests"`
	TripImage     *string `json:"tripImage"`
	IsPrivate     bool    `json:"isPrivate"`
}

// TripFilter narrows trip list queries. Zero values mean "no constraint".
type TripFilter struct {
	HostID *uuid.UUID
	Status *TripStatus
	City   *string
	Limit  int
	Offset int
}

type TripTimes struct {
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	EstimatedTime *string   `json:"estimatedTime,omitempty"`
}

type RSVPStatus string

const (
	RSVPStatusYes   RSVPStatus = "YES"
	RSVPStatusNo    RSVPStatus = "NO"
	RSVPStatusMaybe RSVPStatus = "MAYBE"
)

type TripRSVP struct {
	ID        uuid.UUID  `json:"id"`
	TripID    uuid.UUID  `json:"tripId"`
	UserID    uuid.UUID  `json:"userId"`
	Status    RSVPStatus `json:"status"`
	User      *User      `json:"user,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Comment struct {
	ID         uuid.UUID  `json:"id"`
	TripID     uuid.UUID  `json:"tripId"`
	AuthorID   uuid.UUID  `json:"authorId"`
	LocationID *uuid.UUID `json:"locationId,omitempty"`
	Text       string     `json:"text"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type Poll struct {
	ID        uuid.UUID  `json:"id"`
	TripID    uuid.UUID  `json:"tripId"`
	Question  string     `json:"question"`
	Options   []string   `json:"options"`
	Votes     []PollVote `json:"votes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type PollVote struct {
	PollID    uuid.UUID `json:"pollId"`
	UserID    uuid.UUID `json:"userId"`
	Option    string    `json:"option"`
	CreatedAt time.Time `json:"createdAt"`
}
