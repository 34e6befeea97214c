package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AlertTypeSMS   = "sms"
	AlertTypeEmail = "email"

	// MaxLocations is the per-contact cap on registered alert locations.
	MaxLocations = 5
)

// Subscription is the per-contact alert record. One document per contact,
// keyed by the canonical contact value (E.164 mobile or email address).
type Subscription struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserContact string             `bson:"user_contact"`
	AlertType   string             `bson:"alertType"`
	CreatedAt   time.Time          `bson:"createdAt"`
	RequestID   string             `bson:"requestId"`
	Locations   []Location         `bson:"locations"`
}

// Location is embedded in a Subscription. The location string is stored
// exactly as submitted; comparison uses the normalized form, which is
// derived on demand and never persisted.
type Location struct {
	Location    string    `bson:"location"`
	Coordinates []float64 `bson:"coordinates"` // GeoJSON order: [longitude, latitude]
	CreatedAt   time.Time `bson:"createdAt"`
}

// SetupAlertRequest is the inbound payload for POST /setup-alert.
// Lat and Long are pointers so a missing coordinate can be told apart
// from a legitimate zero value.
type SetupAlertRequest struct {
	PhoneNumber  string   `json:"phoneNumber"`
	EmailAddress string   `json:"emailAddress"`
	AlertType    string   `json:"alertType" validate:"required,oneof=sms email"`
	Location     string   `json:"location" validate:"required"`
	Lat          *float64 `json:"lat" validate:"required"`
	Long         *float64 `json:"long" validate:"required"`
}

type SetupResult struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}
