package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MoneyBuddyTeam/BE/internal/api/handler"
	"github.com/MoneyBuddyTeam/BE/internal/auth"
	"github.com/MoneyBuddyTeam/BE/internal/chathub"
	"github.com/MoneyBuddyTeam/BE/internal/consultation"
	"github.com/MoneyBuddyTeam/BE/internal/models"
	"github.com/MoneyBuddyTeam/BE/internal/storage"
)

const testSecret = "test-secret"

func newTestRouter(store *MockStorage) (*gin.Engine, *auth.TokenValidator) {
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenValidator(testSecret)
	messages := consultation.NewMessageService(store)
	rooms := consultation.NewRoomService(store)
	hub := chathub.NewHub(store)

	h := handler.NewHandler(hub, rooms, messages, store, tokens, nil)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, tokens
}

func bearerFor(t *testing.T, tokens *auth.TokenValidator, userID uint, role string) string {
	t.Helper()
	token, err := tokens.Issue(userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func roomBetween(roomID, clientID, advisorID uint) *models.Room {
	return &models.Room{
		ID:      roomID,
		OrderID: roomID,
		Order:   models.ConsultationOrder{ID: roomID, ClientID: clientID, AdvisorID: advisorID},
	}
}

func TestListRooms_RequiresAuth(t *testing.T) {
	store := new(MockStorage)
	r, _ := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/consultation-rooms", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListRooms(t *testing.T) {
	store := new(MockStorage)
	r, tokens := newTestRouter(store)

	store.On("GetUserByID", uint(5)).Return(&models.User{ID: 5, Nickname: "demo-client"}, nil)
	store.On("GetUserByID", uint(9)).Return(&models.User{ID: 9, Nickname: "demo-advisor"}, nil)

	room := *roomBetween(1, 5, 9)
	room.LastMessage = "hello"
	store.On("GetRoomsForUser", uint(5)).Return([]models.Room{room}, nil)
	store.On("CountUnread", uint(1), uint(5)).Return(int64(2), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/consultation-rooms", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 5, models.RoleClient))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var summaries []consultation.RoomSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "demo-advisor", summaries[0].OpponentNickname)
	assert.Equal(t, int64(2), summaries[0].UnreadCount)
}

func TestListMessages_NoAccess(t *testing.T) {
	store := new(MockStorage)
	r, tokens := newTestRouter(store)

	store.On("GetUserByID", uint(42)).Return(&models.User{ID: 42, Nickname: "stranger"}, nil)
	store.On("GetRoomByID", uint(1)).Return(roomBetween(1, 5, 9), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/consultation-rooms/1/messages", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 42, models.RoleClient))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	store.AssertNotCalled(t, "GetMessagesForRoom", mock.Anything)
}

func TestListMessages_RoomNotFound(t *testing.T) {
	store := new(MockStorage)
	r, tokens := newTestRouter(store)

	store.On("GetUserByID", uint(5)).Return(&models.User{ID: 5}, nil)
	store.On("GetRoomByID", uint(404)).Return(nil, storage.ErrNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/consultation-rooms/404/messages", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 5, models.RoleClient))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkRead_NoContent(t *testing.T) {
	store := new(MockStorage)
	r, tokens := newTestRouter(store)

	store.On("GetUserByID", uint(9)).Return(&models.User{ID: 9}, nil)
	store.On("GetRoomByID", uint(1)).Return(roomBetween(1, 5, 9), nil)
	store.On("MarkMessagesRead", uint(1), uint(9)).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/consultation-rooms/1/read", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 9, models.RoleAdvisor))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	store.AssertCalled(t, "MarkMessagesRead", uint(1), uint(9))
}

func TestEnsureRoom(t *testing.T) {
	store := new(MockStorage)
	r, tokens := newTestRouter(store)

	store.On("GetUserByID", uint(5)).Return(&models.User{ID: 5}, nil)
	store.On("CreateRoomForOrder", uint(3)).Return(roomBetween(3, 5, 9), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/consultation-rooms/orders/3", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 5, models.RoleClient))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var room models.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
	assert.Equal(t, uint(3), room.ID)
}

func TestLeaveRoom(t *testing.T) {
	store := new(MockStorage)
	r, tokens := newTestRouter(store)

	store.On("GetUserByID", uint(5)).Return(&models.User{ID: 5}, nil)
	store.On("GetRoomByID", uint(1)).Return(roomBetween(1, 5, 9), nil)
	store.On("LeaveRoom", uint(1), uint(5)).Return(false, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/consultation-rooms/1/leave", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 5, models.RoleClient))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestWebSocket_RejectsMissingToken(t *testing.T) {
	store := new(MockStorage)
	r, _ := newTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws?room=1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code, "handshake must fail before any upgrade")
}

func TestWebSocket_RejectsNonParticipant(t *testing.T) {
	store := new(MockStorage)
	r, tokens := newTestRouter(store)

	store.On("GetUserByID", uint(42)).Return(&models.User{ID: 42}, nil)
	store.On("GetRoomByID", uint(1)).Return(roomBetween(1, 5, 9), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws?room=1", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, 42, models.RoleClient))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
