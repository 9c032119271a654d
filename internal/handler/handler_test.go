package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wiki-echo/internal/domain"
	"wiki-echo/internal/handler"
	"wiki-echo/internal/middleware"
	"wiki-echo/internal/mocks"
	"wiki-echo/internal/repository"
	"wiki-echo/internal/service/notification"
	"wiki-echo/internal/service/preference"
	"wiki-echo/internal/service/user"
)

var alice = &domain.User{ID: 1, Name: "Alice", Language: "en"}

func newTestApp(as *domain.User) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if as != nil {
			c.Locals(middleware.UserContextKey, as)
			c.Locals(middleware.UserIDContextKey, as.ID)
		}
		return c.Next()
	})
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestNotificationHandler_List(t *testing.T) {
	svc := new(mocks.NotificationService)
	h := handler.NewNotificationHandler(svc)
	app := newTestApp(alice)
	app.Get("/notifications", h.List)

	ts := time.Unix(1700000000, 0).UTC()
	svc.On("List", mock.Anything, alice, "model", domain.ListParams{Limit: 10, Timestamp: &ts, Offset: 42}).
		Return(&domain.NotificationList{List: []*domain.FormattedNotification{}, Continue: "1699990000|7"}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/notifications?format=model&limit=10&continue=1700000000%7C42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body domain.NotificationList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "1699990000|7", body.Continue)
	svc.AssertExpectations(t)
}

func TestNotificationHandler_ListRejectsBadInput(t *testing.T) {
	svc := new(mocks.NotificationService)
	app := newTestApp(alice)
	app.Get("/notifications", handler.NewNotificationHandler(svc).List)

	for _, target := range []string{
		"/notifications?format=pdf",
		"/notifications?continue=garbage",
		"/notifications?continue=1700000000%7C0",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, target)
	}
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationHandler_RequiresUser(t *testing.T) {
	app := newTestApp(nil)
	app.Get("/notifications", handler.NewNotificationHandler(new(mocks.NotificationService)).List)

	resp, err := app.Test(httptest.NewRequest("GET", "/notifications", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestNotificationHandler_UnreadCount(t *testing.T) {
	svc := new(mocks.NotificationService)
	app := newTestApp(alice)
	app.Get("/notifications/unread-count", handler.NewNotificationHandler(svc).GetUnreadCount)

	svc.On("UnreadCount", mock.Anything, alice, domain.DBPrimary).
		Return(&domain.UnreadCount{Count: "99+", RawCount: 100}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/notifications/unread-count?source=primary", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body domain.UnreadCount
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "99+", body.Count)
	assert.Equal(t, int64(100), body.RawCount)
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	svc := new(mocks.NotificationService)
	h := handler.NewNotificationHandler(svc)
	app := newTestApp(alice)
	app.Post("/notifications/read", h.MarkRead)
	app.Post("/notifications/read-all", h.MarkAllRead)

	svc.On("MarkRead", mock.Anything, alice, []int64{3, 4}).Return(int64(2), nil)
	svc.On("MarkAllRead", mock.Anything, alice).Return(int64(5), nil)

	resp, err := app.Test(jsonRequest("POST", "/notifications/read", `{"ids":[3,4]}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]int64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(2), body["updated"])

	resp, err = app.Test(jsonRequest("POST", "/notifications/read", `{"ids":[]}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/notifications/read-all", ``))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestEventHandler_Create(t *testing.T) {
	svc := new(mocks.NotificationService)
	h := handler.NewEventHandler(svc)
	app := newTestApp(&domain.User{ID: 9, Groups: "bot"})
	app.Post("/events", h.Create)

	svc.On("Notify", mock.Anything, mock.MatchedBy(func(in domain.NotifyInput) bool {
		return in.Type == "mention" && len(in.Recipients) == 1
	})).Return(&domain.Event{ID: 11, Type: "mention"}, nil).Once()
	svc.On("Notify", mock.Anything, mock.MatchedBy(func(in domain.NotifyInput) bool {
		return in.Type == "ghost"
	})).Return(nil, fmt.Errorf("%w: ghost", notification.ErrUnknownType)).Once()

	resp, err := app.Test(jsonRequest("POST", "/events", `{"type":"mention","agent_id":2,"recipients":[1],"extra":{"revid":5}}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(11), body["id"])

	resp, err = app.Test(jsonRequest("POST", "/events", `{"type":"ghost","recipients":[1]}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/events", `{"recipients":[1]}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestEventHandler_Get(t *testing.T) {
	svc := new(mocks.NotificationService)
	app := newTestApp(alice)
	app.Get("/events/:id", handler.NewEventHandler(svc).Get)

	ev := &domain.Event{ID: 3, Type: "welcome"}
	require.NoError(t, ev.SetExtra(domain.EventExtra{"revid": 8}))
	svc.On("GetEvent", mock.Anything, int64(3)).Return(ev, nil)
	svc.On("GetEvent", mock.Anything, int64(4)).Return(nil, fmt.Errorf("%w with id 4", repository.ErrEventNotFound))

	resp, err := app.Test(httptest.NewRequest("GET", "/events/3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "welcome", body["type"])
	assert.Equal(t, map[string]any{"revid": float64(8)}, body["extra"])

	resp, err = app.Test(httptest.NewRequest("GET", "/events/4", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/events/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPreferenceHandler(t *testing.T) {
	svc := new(mocks.PreferenceService)
	h := handler.NewPreferenceHandler(svc)
	app := newTestApp(alice)
	app.Get("/preferences", h.Get)
	app.Put("/preferences", h.Update)

	settings := &domain.PreferenceSettings{EmailFrequency: domain.EmailFrequencyDaily}
	svc.On("Get", mock.Anything, alice).Return(settings, nil)
	svc.On("Update", mock.Anything, alice, mock.MatchedBy(func(in domain.UpdatePreferencesInput) bool {
		return in.EmailFrequency != nil && *in.EmailFrequency == domain.EmailFrequencyDaily
	})).Return(settings, nil).Once()
	svc.On("Update", mock.Anything, alice, mock.Anything).Return(nil, preference.ErrUnknownCategory).Once()

	resp, err := app.Test(httptest.NewRequest("GET", "/preferences", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("PUT", "/preferences", fmt.Sprintf(`{"email_frequency":%d}`, domain.EmailFrequencyDaily)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("PUT", "/preferences", `{"subscriptions":{"nope":{"web":true}}}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestUserHandler_Sync(t *testing.T) {
	svc := new(mocks.UserService)
	h := handler.NewUserHandler(svc)
	app := newTestApp(&domain.User{ID: 9, Groups: "bot"})
	app.Put("/users/:id", h.Sync)
	app.Get("/users/:id", h.Get)

	svc.On("Sync", mock.Anything, int64(5), mock.MatchedBy(func(in domain.SyncUserInput) bool {
		return in.Name == "Eve"
	})).Return(&domain.User{ID: 5, Name: "Eve"}, nil).Once()
	svc.On("Sync", mock.Anything, int64(5), mock.Anything).Return(nil, user.ErrNameRequired).Once()
	svc.On("GetByID", mock.Anything, int64(6)).Return(nil, user.ErrUserNotFound)

	resp, err := app.Test(jsonRequest("PUT", "/users/5", `{"name":"Eve","email":"eve@example.org"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(jsonRequest("PUT", "/users/5", `{}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/users/6", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	svc.AssertExpectations(t)
}

func iconUpload(t *testing.T, target, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="icon.png"`}
	header["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("PUT", target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestIconHandler_Upload(t *testing.T) {
	svc := new(mocks.IconService)
	app := newTestApp(&domain.User{ID: 1, Groups: "sysop"})
	app.Put("/icons/:name", handler.NewIconHandler(svc).Upload)

	png := []byte("\x89PNG\r\n\x1a\nfake")
	svc.On("Upload", mock.Anything, "mention", "rtl", mock.Anything, int64(len(png))).Return(nil).Once()
	svc.On("RasterizedURL", mock.Anything, "mention", "he").Return("http://cdn/icons/mention-rtl.png")

	resp, err := app.Test(iconUpload(t, "/icons/mention?dir=rtl", "image/png", png))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "http://cdn/icons/mention-rtl.png", body["url"])

	resp, err = app.Test(iconUpload(t, "/icons/mention", "image/gif", png))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(iconUpload(t, "/icons/Bad..Name", "image/png", png))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	svc.On("Upload", mock.Anything, "mention", "ltr", mock.Anything, mock.Anything).Return(errors.New("storage down")).Once()
	resp, err = app.Test(iconUpload(t, "/icons/mention", "image/png", png))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	svc.AssertExpectations(t)
}
