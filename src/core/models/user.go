package models

// User is a tenant-scoped placeholder that anchors attempt ownership. It is
// upserted on the first attempt start; the tenant's own systems hold any
// profile data.
type User struct {
	ID string `bson:"_id" json:"id"`
}
