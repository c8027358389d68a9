package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/AiMagic5000/508-ministry-dashboard/internal/database/testutil"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/middleware"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/models"
	"github.com/AiMagic5000/508-ministry-dashboard/internal/services"
	"github.com/AiMagic5000/508-ministry-dashboard/pkg/response"
)

func TestNotificationHandlerListAndMarkRead(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewNotificationHandler(db)
	require.NoError(t, err)

	org := models.Organization{ClerkOrgID: "org_h", Name: "Handler Ministry"}
	require.NoError(t, db.Create(&org).Error)

	created, err := handler.svc.Create(context.Background(), org.ID, services.CreateNotificationInput{
		NotificationType: models.NotificationTypeAlert,
		Title:            "Trial ending soon",
		Message:          "Your trial ends in 3 days",
	})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Set(middleware.CtxOrganizationIDKey, org.ID)
	handler.List(c)

	require.Equal(t, http.StatusOK, recorder.Code)

	var payload response.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.True(t, payload.Success)

	dataBytes, err := json.Marshal(payload.Data)
	require.NoError(t, err)

	var listed []models.Notification
	require.NoError(t, json.Unmarshal(dataBytes, &listed))
	require.Len(t, listed, 1)
	require.Equal(t, created.ID, listed[0].ID)
	require.False(t, listed[0].IsRead)

	readRecorder := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(readRecorder)
	c2.Params = gin.Params{gin.Param{Key: "id", Value: created.ID}}
	c2.Set(middleware.CtxOrganizationIDKey, org.ID)
	handler.MarkRead(c2)

	require.Equal(t, http.StatusOK, readRecorder.Code)

	var stored models.Notification
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.True(t, stored.IsRead)
}

func TestNotificationHandlerMarkReadUnknownID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	handler, err := NewNotificationHandler(db)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Params = gin.Params{gin.Param{Key: "id", Value: "missing"}}
	c.Set(middleware.CtxOrganizationIDKey, "org_none")
	handler.MarkRead(c)

	require.Equal(t, http.StatusNotFound, recorder.Code)
}
