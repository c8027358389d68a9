package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/clerk"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/database/testutil"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
)

const testWebhookSecret = "whsec_MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw"

// signPayload produces the svix envelope headers for a payload the way the
// provider does: HMAC-SHA256 over "{id}.{timestamp}.{body}" keyed with the
// base64-decoded portion of the shared secret.
func signPayload(t *testing.T, secret, msgID string, timestamp time.Time, payload []byte) http.Header {
	t.Helper()

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	require.NoError(t, err)

	ts := fmt.Sprintf("%d", timestamp.Unix())
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + ts + "."))
	mac.Write(payload)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	headers := http.Header{}
	headers.Set(clerk.HeaderID, msgID)
	headers.Set(clerk.HeaderTimestamp, ts)
	headers.Set(clerk.HeaderSignature, "v1,"+signature)
	return headers
}

func newWebhookRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	activity, err := services.NewActivityService(db)
	require.NoError(t, err)
	provisioner, err := services.NewProvisioningService(db, activity)
	require.NoError(t, err)
	verifier, err := clerk.NewVerifier(testWebhookSecret)
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/webhooks/clerk", Webhook(verifier, provisioner))
	return r, db
}

func postWebhook(r *gin.Engine, body []byte, headers http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", strings.NewReader(string(body)))
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func userCreatedPayload(userID string) []byte {
	return []byte(fmt.Sprintf(`{
		"type": "user.created",
		"data": {
			"id": %q,
			"first_name": "Jane",
			"last_name": "Doe",
			"primary_email_address_id": "idn_1",
			"email_addresses": [{"id": "idn_1", "email_address": "jane@example.com"}]
		}
	}`, userID))
}

func TestWebhookRejectsMissingHeaders(t *testing.T) {
	r, db := newWebhookRouter(t)

	w := postWebhook(r, userCreatedPayload("user_1"), http.Header{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Error occured -- no svix headers", w.Body.String())

	// Nothing may be written on a rejected delivery.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestWebhookRejectsPartialHeaders(t *testing.T) {
	r, _ := newWebhookRouter(t)

	payload := userCreatedPayload("user_1")
	headers := signPayload(t, testWebhookSecret, "msg_1", time.Now(), payload)
	headers.Del(clerk.HeaderSignature)

	w := postWebhook(r, payload, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Error occured -- no svix headers", w.Body.String())
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r, db := newWebhookRouter(t)

	payload := userCreatedPayload("user_1")
	headers := signPayload(t, testWebhookSecret, "msg_1", time.Now(), payload)
	headers.Set(clerk.HeaderSignature, "v1,AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")

	w := postWebhook(r, payload, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Error occured", w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestWebhookRejectsTamperedPayload(t *testing.T) {
	r, _ := newWebhookRouter(t)

	payload := userCreatedPayload("user_1")
	headers := signPayload(t, testWebhookSecret, "msg_1", time.Now(), payload)

	tampered := []byte(strings.Replace(string(payload), "user_1", "user_2", 1))
	w := postWebhook(r, tampered, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookProcessesUserCreated(t *testing.T) {
	r, db := newWebhookRouter(t)

	payload := userCreatedPayload("user_99")
	headers := signPayload(t, testWebhookSecret, "msg_1", time.Now(), payload)

	w := postWebhook(r, payload, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Webhook processed successfully", w.Body.String())

	var user models.User
	require.NoError(t, db.First(&user, "clerk_user_id = ?", "user_99").Error)
	require.Equal(t, models.RoleOwner, user.Role)

	var org models.Organization
	require.NoError(t, db.First(&org, "clerk_org_id = ?", "org_user_99").Error)
	require.Equal(t, "Jane Doe's Ministry", org.Name)
}

func TestWebhookAcknowledgesUnrecognisedEvent(t *testing.T) {
	r, db := newWebhookRouter(t)

	payload := []byte(`{"type": "session.created", "data": {"id": "sess_1"}}`)
	headers := signPayload(t, testWebhookSecret, "msg_2", time.Now(), payload)

	w := postWebhook(r, payload, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Webhook processed successfully", w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestWebhookReturns500OnFatalError(t *testing.T) {
	r, db := newWebhookRouter(t)

	// Membership into a tenant this system has never seen is a fatal error:
	// the provider should retry after the organization event lands.
	payload := []byte(`{
		"type": "organizationMembership.created",
		"data": {
			"organization": {"id": "org_unknown"},
			"public_user_data": {"user_id": "user_5", "identifier": "a@b.c"}
		}
	}`)
	headers := signPayload(t, testWebhookSecret, "msg_3", time.Now(), payload)

	w := postWebhook(r, payload, headers)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Error processing webhook", w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestWebhookRedeliveryStaysIdempotent(t *testing.T) {
	r, db := newWebhookRouter(t)

	payload := userCreatedPayload("user_dup")
	for i := 0; i < 2; i++ {
		headers := signPayload(t, testWebhookSecret, fmt.Sprintf("msg_%d", i), time.Now(), payload)
		w := postWebhook(r, payload, headers)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var userCount, orgCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Organization{}).Count(&orgCount).Error)
	require.EqualValues(t, 1, userCount)
	require.EqualValues(t, 1, orgCount)
}
