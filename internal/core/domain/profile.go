package domain

// UserProfile is the application-level record of a user, stored in the
// "users" collection and distinct from the auth-service identity.
type UserProfile struct {
	DocID        string   `json:"doc_id" bson:"_id,omitempty"`
	UserID       string   `json:"user_id" bson:"userId"`
	Username     string   `json:"username" bson:"username"`
	FullName     string   `json:"full_name" bson:"fullName"`
	EmailAddress string   `json:"email_address" bson:"emailAddress"`
	Following    []string `json:"following" bson:"following"`
	// DateCreated is milliseconds since the Unix epoch.
	DateCreated int64 `json:"date_created" bson:"dateCreated"`
}

// Follows reports whether the profile follows userID.
func (p *UserProfile) Follows(userID string) bool {
	for _, id := range p.Following {
		if id == userID {
			return true
		}
	}
	return false
}
