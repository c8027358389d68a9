package clerk

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventType discriminates inbound webhook events.
type EventType string

// Event types the provisioning workflow acts on. Anything else is
// acknowledged without side effects.
const (
	EventUserCreated         EventType = "user.created"
	EventOrganizationCreated EventType = "organization.created"
	EventMembershipCreated   EventType = "organizationMembership.created"
	EventUserUpdated         EventType = "user.updated"
	EventUserDeleted         EventType = "user.deleted"
)

// EmailAddress is one address attached to a provider user.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// OrganizationRef identifies a provider organization inside a membership.
type OrganizationRef struct {
	ID string `json:"id"`
}

// OrganizationMembership links a user to a provider organization.
type OrganizationMembership struct {
	Organization OrganizationRef `json:"organization"`
}

// UserData is the payload shape for user.* events.
type UserData struct {
	ID                      string                   `json:"id"`
	FirstName               string                   `json:"first_name"`
	LastName                string                   `json:"last_name"`
	EmailAddresses          []EmailAddress           `json:"email_addresses"`
	PrimaryEmailAddressID   string                   `json:"primary_email_address_id"`
	OrganizationMemberships []OrganizationMembership `json:"organization_memberships"`
}

// PrimaryEmail resolves the declared primary address against the attached
// address list. Returns the empty string when there is no match, never an
// error; a missing email is tolerated downstream.
func (u UserData) PrimaryEmail() string {
	for _, addr := range u.EmailAddresses {
		if addr.ID == u.PrimaryEmailAddressID {
			return addr.EmailAddress
		}
	}
	return ""
}

// FullName joins first and last name, trimming the result.
func (u UserData) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// OrganizationData is the payload shape for organization.created.
type OrganizationData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
}

// PublicUserData carries the member identity inside a membership event.
type PublicUserData struct {
	UserID     string `json:"user_id"`
	Identifier string `json:"identifier"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// FullName joins first and last name, trimming the result.
func (p PublicUserData) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// MembershipData is the payload shape for organizationMembership.created.
type MembershipData struct {
	Organization   OrganizationRef `json:"organization"`
	PublicUserData PublicUserData  `json:"public_user_data"`
}

// Event is the decoded webhook event. Exactly one payload pointer is set for
// recognised types; unrecognised types carry only the Type.
type Event struct {
	Type EventType

	User         *UserData
	Organization *OrganizationData
	Membership   *MembershipData
}

// Recognized reports whether the event type maps to a provisioning handler.
func (e Event) Recognized() bool {
	switch e.Type {
	case EventUserCreated, EventOrganizationCreated, EventMembershipCreated, EventUserUpdated, EventUserDeleted:
		return true
	}
	return false
}

type envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParseEvent decodes a verified webhook body into a typed Event.
func ParseEvent(body []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{}, fmt.Errorf("clerk: decode envelope: %w", err)
	}
	if env.Type == "" {
		return Event{}, fmt.Errorf("clerk: event type missing")
	}

	evt := Event{Type: env.Type}

	switch env.Type {
	case EventUserCreated, EventUserUpdated, EventUserDeleted:
		var data UserData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Event{}, fmt.Errorf("clerk: decode %s data: %w", env.Type, err)
		}
		evt.User = &data
	case EventOrganizationCreated:
		var data OrganizationData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Event{}, fmt.Errorf("clerk: decode %s data: %w", env.Type, err)
		}
		evt.Organization = &data
	case EventMembershipCreated:
		var data MembershipData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Event{}, fmt.Errorf("clerk: decode %s data: %w", env.Type, err)
		}
		evt.Membership = &data
	}

	return evt, nil
}
