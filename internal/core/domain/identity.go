package domain

import "time"

// Identity is an authenticated principal issued by the auth service.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// Clone returns a copy of the identity, or nil for a nil receiver.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// IdentityRecord is the auth service's stored form of an identity.
type IdentityRecord struct {
	UID          string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	DisplayName  string    `bson:"display_name"`
	CreatedAt    time.Time `bson:"created_at"`
}

// Identity projects the record onto the public identity.
func (r *IdentityRecord) Identity() *Identity {
	return &Identity{UID: r.UID, DisplayName: r.DisplayName, Email: r.Email}
}

// ProfileUpdate carries the mutable identity attributes.
type ProfileUpdate struct {
	DisplayName string
}
