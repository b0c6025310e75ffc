package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crm/backend/internal/application/messaging"
	"github.com/crm/backend/internal/domain/shared"
)

type mockMessageService struct {
	mock.Mock
}

func (m *mockMessageService) List(ctx context.Context) ([]messaging.MessageResponse, error) {
	args := m.Called(ctx)
	msgs, _ := args.Get(0).([]messaging.MessageResponse)
	return msgs, args.Error(1)
}

func (m *mockMessageService) GetByID(ctx context.Context, id int64) (*messaging.MessageResponse, error) {
	return messageResult(m.Called(ctx, id))
}

func (m *mockMessageService) Create(ctx context.Context, req messaging.CreateMessageRequest) (*messaging.MessageResponse, error) {
	return messageResult(m.Called(ctx, req))
}

func (m *mockMessageService) Update(ctx context.Context, id int64, req messaging.UpdateMessageRequest) (*messaging.MessageResponse, error) {
	return messageResult(m.Called(ctx, id, req))
}

func (m *mockMessageService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func messageResult(args mock.Arguments) (*messaging.MessageResponse, error) {
	if r := args.Get(0); r != nil {
		return r.(*messaging.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func messageRouter(svc MessageService) http.Handler {
	h := NewMessageHandler(svc)
	r := newTestRouter()
	g := r.Group("/canned-messages")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r
}

func TestMessageHandler_Create(t *testing.T) {
	svc := new(mockMessageService)
	req := messaging.CreateMessageRequest{Title: "Hi", Body: "Thanks for reaching out"}
	svc.On("Create", mock.Anything, req).Return(&messaging.MessageResponse{ID: 1, Kind: "canned", Title: "Hi"}, nil)

	w := perform(messageRouter(svc), "POST", "/canned-messages", req)

	require.Equal(t, http.StatusCreated, w.Code)
	var msg messaging.MessageResponse
	decode(t, w, &msg)
	assert.Equal(t, "canned", msg.Kind)
}

func TestMessageHandler_Create_MissingBody(t *testing.T) {
	w := perform(messageRouter(new(mockMessageService)), "POST", "/canned-messages", map[string]string{"title": "Hi"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "body", decode(t, w, nil).Error.Details[0].Field)
}

func TestMessageHandler_Update_Partial(t *testing.T) {
	svc := new(mockMessageService)
	svc.On("Update", mock.Anything, int64(3), mock.MatchedBy(func(r messaging.UpdateMessageRequest) bool {
		return r.Title != nil && *r.Title == "New" && r.Body == nil
	})).Return(&messaging.MessageResponse{ID: 3, Title: "New", Body: "old body"}, nil)

	w := perform(messageRouter(svc), "PUT", "/canned-messages/3", map[string]string{"title": "New"})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestMessageHandler_Delete_IsIdempotent(t *testing.T) {
	svc := new(mockMessageService)
	svc.On("Delete", mock.Anything, int64(3)).Return(nil).Twice()

	r := messageRouter(svc)
	assert.Equal(t, http.StatusNoContent, perform(r, "DELETE", "/canned-messages/3", nil).Code)
	assert.Equal(t, http.StatusNoContent, perform(r, "DELETE", "/canned-messages/3", nil).Code)
}

func TestMessageHandler_GetByID_NotFound(t *testing.T) {
	svc := new(mockMessageService)
	svc.On("GetByID", mock.Anything, int64(3)).Return(nil, shared.NewNotFoundError("message", 3))

	w := perform(messageRouter(svc), "GET", "/canned-messages/3", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
