package models

import (
	"time"
)

type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// Client is an API tenant. ClientID is the public credential identifier used
// in the client_credentials grant; the secret is only ever stored as a bcrypt
// hash. Each client owns a fully isolated set of entity stores.
type Client struct {
	ID               string       `bson:"_id" json:"id"`
	Name             string       `bson:"name" json:"name"`
	ClientID         string       `bson:"clientId" json:"client_id"`
	ClientSecretHash string       `bson:"clientSecretHash" json:"-"`
	Status           ClientStatus `bson:"status" json:"status"`
	CreatedAt        time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt        time.Time    `bson:"updatedAt" json:"updated_at"`
}
