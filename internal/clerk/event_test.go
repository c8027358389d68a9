package clerk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEventUserCreated(t *testing.T) {
	body := []byte(`{
		"type": "user.created",
		"data": {
			"id": "user_1",
			"first_name": "Jane",
			"last_name": "Doe",
			"primary_email_address_id": "idn_2",
			"email_addresses": [
				{"id": "idn_1", "email_address": "secondary@example.com"},
				{"id": "idn_2", "email_address": "primary@example.com"}
			],
			"organization_memberships": [
				{"organization": {"id": "org_9"}}
			]
		}
	}`)

	evt, err := ParseEvent(body)
	require.NoError(t, err)
	require.Equal(t, EventUserCreated, evt.Type)
	require.True(t, evt.Recognized())
	require.NotNil(t, evt.User)
	require.Equal(t, "user_1", evt.User.ID)
	require.Equal(t, "primary@example.com", evt.User.PrimaryEmail())
	require.Equal(t, "Jane Doe", evt.User.FullName())
	require.Len(t, evt.User.OrganizationMemberships, 1)
	require.Equal(t, "org_9", evt.User.OrganizationMemberships[0].Organization.ID)
}

func TestParseEventMembershipCreated(t *testing.T) {
	body := []byte(`{
		"type": "organizationMembership.created",
		"data": {
			"organization": {"id": "org_1"},
			"public_user_data": {
				"user_id": "user_2",
				"identifier": "pat@example.com",
				"first_name": "Pat",
				"last_name": "Ng"
			}
		}
	}`)

	evt, err := ParseEvent(body)
	require.NoError(t, err)
	require.Equal(t, EventMembershipCreated, evt.Type)
	require.NotNil(t, evt.Membership)
	require.Equal(t, "org_1", evt.Membership.Organization.ID)
	require.Equal(t, "Pat Ng", evt.Membership.PublicUserData.FullName())
}

func TestParseEventUnrecognisedType(t *testing.T) {
	evt, err := ParseEvent([]byte(`{"type": "session.created", "data": {"id": "sess_1"}}`))
	require.NoError(t, err)
	require.False(t, evt.Recognized())
	require.Nil(t, evt.User)
	require.Nil(t, evt.Organization)
	require.Nil(t, evt.Membership)
}

func TestParseEventErrors(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseEvent([]byte(`{"data": {}}`))
	require.Error(t, err)
}

func TestPrimaryEmailNoMatch(t *testing.T) {
	u := UserData{
		PrimaryEmailAddressID: "idn_9",
		EmailAddresses:        []EmailAddress{{ID: "idn_1", EmailAddress: "a@b.c"}},
	}
	require.Empty(t, u.PrimaryEmail())
}

func TestFullNameTrimsParts(t *testing.T) {
	require.Equal(t, "Jane", UserData{FirstName: " Jane "}.FullName())
	require.Empty(t, UserData{}.FullName())
}
