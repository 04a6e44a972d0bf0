package domain

import "time"

// Organization is the tenant boundary. Every identity and every
// authorization decision is scoped by its ID.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedOn time.Time `json:"created_on"`
}

// Client is a customer account of an organization. Portal users hang off a
// client, one tenant level below the organization.
type Client struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedOn time.Time `json:"created_on"`
}

// ClientAssignment links an internal member to a client they service.
type ClientAssignment struct {
	MemberID string `json:"member_id"`
	ClientID string `json:"client_id"`
	IsActive bool   `json:"is_active"`
}
