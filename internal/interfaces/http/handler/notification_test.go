package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	notificationapp "github.com/pulsetronic/backend/internal/application/notification"
	"github.com/pulsetronic/backend/internal/domain/notification"
	"github.com/pulsetronic/backend/internal/infrastructure/persistence"
	"github.com/pulsetronic/backend/internal/interfaces/http/middleware"
)

type notificationFixture struct {
	svc     *notificationapp.Service
	router  *gin.Engine
	userA   uuid.UUID
	userB   uuid.UUID
	handler *NotificationHandler
}

// fakeAuth injects the user ID the JWT middleware would have set
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Next()
	}
}

func setupNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&notification.Notification{}))

	repo := persistence.NewGormNotificationRepository(db)
	svc := notificationapp.NewService(repo, zap.NewNop())
	h := NewNotificationHandler(svc)

	f := &notificationFixture{
		svc:     svc,
		userA:   uuid.New(),
		userB:   uuid.New(),
		handler: h,
	}

	router := gin.New()
	group := router.Group("/api/v1/notifications", fakeAuth(f.userA))
	group.GET("", h.List)
	group.GET("/unread-count", h.UnreadCount)
	group.PUT("/read-all", h.MarkAllRead)
	group.PUT("/:id/read", h.MarkRead)
	group.DELETE("/:id", h.Delete)
	f.router = router

	return f
}

func (f *notificationFixture) record(t *testing.T, owner uuid.UUID, title string) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Record(context.Background(), notificationapp.RecordRequest{
		OwnerID: owner,
		Kind:    "NEW_QUOTE",
		Title:   title,
		Message: "Um novo orçamento chegou",
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *notificationFixture) broadcast(t *testing.T, title string) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Broadcast(context.Background(), notificationapp.BroadcastRequest{
		Kind:    "SYSTEM",
		Title:   title,
		Message: "Aviso para toda a equipe",
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *notificationFixture) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, path, nil)
	require.NoError(t, err)
	f.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestNotificationHandler_List(t *testing.T) {
	f := setupNotificationFixture(t)

	readID := f.record(t, f.userA, "Já lido")
	f.record(t, f.userA, "Não lido")
	f.broadcast(t, "Para todos")
	f.record(t, f.userB, "De outra pessoa")

	require.NoError(t, f.svc.MarkRead(context.Background(), f.userA, readID))

	t.Run("returns items with totals and unread count", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/notifications")
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeData(t, w)
		assert.Equal(t, float64(3), data["total"])
		assert.Equal(t, float64(2), data["unreadCount"])
		assert.Equal(t, float64(0), data["offset"])
		assert.Equal(t, float64(20), data["limit"])
		assert.Len(t, data["items"], 3)
	})

	t.Run("onlyUnread filters items but not the unread count", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/notifications?onlyUnread=true")
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeData(t, w)
		assert.Equal(t, float64(2), data["total"])
		assert.Equal(t, float64(2), data["unreadCount"])
		assert.Len(t, data["items"], 2)
	})

	t.Run("paging is honored", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/notifications?offset=2&limit=2")
		require.Equal(t, http.StatusOK, w.Code)

		data := decodeData(t, w)
		assert.Equal(t, float64(3), data["total"])
		assert.Equal(t, float64(2), data["offset"])
		assert.Equal(t, float64(2), data["limit"])
		assert.Len(t, data["items"], 1)
	})

	t.Run("item payload uses the wire field names", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/api/v1/notifications")
		require.Equal(t, http.StatusOK, w.Code)

		body := w.Body.String()
		assert.Contains(t, body, `"items"`)
		assert.Contains(t, body, `"unreadCount"`)
		assert.Contains(t, body, `"createdAt"`)
		assert.Contains(t, body, `"readAt"`)
		assert.Contains(t, body, `"ownerId"`)
	})
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	f := setupNotificationFixture(t)

	f.record(t, f.userA, "Não lido")
	f.broadcast(t, "Para todos")

	w := f.do(t, http.MethodGet, "/api/v1/notifications/unread-count")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, float64(2), data["unreadCount"])
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	f := setupNotificationFixture(t)

	ownID := f.record(t, f.userA, "Meu aviso")
	foreignID := f.record(t, f.userB, "De outra pessoa")
	broadcastID := f.broadcast(t, "Para todos")

	t.Run("marks an owned notification", func(t *testing.T) {
		w := f.do(t, http.MethodPut, "/api/v1/notifications/"+ownID.String()+"/read")
		assert.Equal(t, http.StatusOK, w.Code)

		count, err := f.svc.UnreadCount(context.Background(), f.userA)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count) // only the broadcast remains
	})

	t.Run("is idempotent", func(t *testing.T) {
		w := f.do(t, http.MethodPut, "/api/v1/notifications/"+ownID.String()+"/read")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("someone else's notification is not found", func(t *testing.T) {
		w := f.do(t, http.MethodPut, "/api/v1/notifications/"+foreignID.String()+"/read")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("broadcasts cannot be individually dismissed", func(t *testing.T) {
		w := f.do(t, http.MethodPut, "/api/v1/notifications/"+broadcastID.String()+"/read")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("garbage id is a bad request", func(t *testing.T) {
		w := f.do(t, http.MethodPut, "/api/v1/notifications/not-a-uuid/read")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	f := setupNotificationFixture(t)

	f.record(t, f.userA, "Primeiro")
	f.record(t, f.userA, "Segundo")
	f.broadcast(t, "Para todos")
	f.record(t, f.userB, "De outra pessoa")

	w := f.do(t, http.MethodPut, "/api/v1/notifications/read-all")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, float64(2), data["updated"])

	// broadcast stays unread
	count, err := f.svc.UnreadCount(context.Background(), f.userA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// other users are untouched
	count, err = f.svc.UnreadCount(context.Background(), f.userB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	t.Run("second call updates nothing", func(t *testing.T) {
		w := f.do(t, http.MethodPut, "/api/v1/notifications/read-all")
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, float64(0), data["updated"])
	})
}

func TestNotificationHandler_Delete(t *testing.T) {
	f := setupNotificationFixture(t)

	ownID := f.record(t, f.userA, "Meu aviso")
	foreignID := f.record(t, f.userB, "De outra pessoa")
	broadcastID := f.broadcast(t, "Para todos")

	t.Run("deletes an owned notification", func(t *testing.T) {
		w := f.do(t, http.MethodDelete, "/api/v1/notifications/"+ownID.String())
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("someone else's notification is not found", func(t *testing.T) {
		w := f.do(t, http.MethodDelete, "/api/v1/notifications/"+foreignID.String())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("broadcasts cannot be deleted and stay visible", func(t *testing.T) {
		w := f.do(t, http.MethodDelete, "/api/v1/notifications/"+broadcastID.String())
		assert.Equal(t, http.StatusNotFound, w.Code)

		list, err := f.svc.List(context.Background(), f.userB, notificationapp.ListRequest{})
		require.NoError(t, err)
		found := false
		for _, item := range list.Items {
			if item.ID == broadcastID {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestNotificationHandler_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&notification.Notification{}))

	svc := notificationapp.NewService(persistence.NewGormNotificationRepository(db), zap.NewNop())
	h := NewNotificationHandler(svc)

	router := gin.New()
	router.GET("/api/v1/notifications", h.List)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
