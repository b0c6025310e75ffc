package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crm/backend/internal/application/lead"
	"github.com/crm/backend/internal/domain/shared"
)

type mockLeadService struct {
	mock.Mock
}

func (m *mockLeadService) Create(ctx context.Context, req lead.CreateLeadRequest) (*lead.LeadResponse, error) {
	args := m.Called(ctx, req)
	return leadResult(args)
}

func (m *mockLeadService) GetByID(ctx context.Context, id int64) (*lead.LeadResponse, error) {
	return leadResult(m.Called(ctx, id))
}

func (m *mockLeadService) List(ctx context.Context, filter lead.LeadListFilter) ([]lead.LeadResponse, int64, error) {
	args := m.Called(ctx, filter)
	leads, _ := args.Get(0).([]lead.LeadResponse)
	return leads, args.Get(1).(int64), args.Error(2)
}

func (m *mockLeadService) Update(ctx context.Context, id int64, req lead.UpdateLeadRequest) (*lead.LeadResponse, error) {
	return leadResult(m.Called(ctx, id, req))
}

func (m *mockLeadService) ChangeStage(ctx context.Context, id int64, req lead.ChangeStageRequest) (*lead.LeadResponse, error) {
	return leadResult(m.Called(ctx, id, req))
}

func (m *mockLeadService) Assign(ctx context.Context, id int64, req lead.AssignRequest) (*lead.LeadResponse, error) {
	return leadResult(m.Called(ctx, id, req))
}

func (m *mockLeadService) Activate(ctx context.Context, id int64) (*lead.LeadResponse, error) {
	return leadResult(m.Called(ctx, id))
}

func (m *mockLeadService) Deactivate(ctx context.Context, id int64) (*lead.LeadResponse, error) {
	return leadResult(m.Called(ctx, id))
}

func (m *mockLeadService) ListNotes(ctx context.Context, leadID int64) ([]lead.NoteResponse, error) {
	args := m.Called(ctx, leadID)
	notes, _ := args.Get(0).([]lead.NoteResponse)
	return notes, args.Error(1)
}

func (m *mockLeadService) AddNote(ctx context.Context, leadID, authorID int64, req lead.AddNoteRequest) (*lead.NoteResponse, error) {
	args := m.Called(ctx, leadID, authorID, req)
	if n := args.Get(0); n != nil {
		return n.(*lead.NoteResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func leadResult(args mock.Arguments) (*lead.LeadResponse, error) {
	if l := args.Get(0); l != nil {
		return l.(*lead.LeadResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func leadRouter(svc LeadService, userID int64) *gin.Engine {
	h := NewLeadHandler(svc)
	r := newTestRouter(asUser(userID))
	g := r.Group("/leads")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/stage", h.ChangeStage)
	g.PATCH("/:id/assignee", h.Assign)
	g.POST("/:id/activate", h.Activate)
	g.POST("/:id/deactivate", h.Deactivate)
	g.GET("/:id/notes", h.ListNotes)
	g.POST("/:id/notes", h.AddNote)
	return r
}

func TestLeadHandler_Create(t *testing.T) {
	svc := new(mockLeadService)
	req := lead.CreateLeadRequest{Name: "Acme", Phone: "555-0100"}
	svc.On("Create", mock.Anything, req).Return(&lead.LeadResponse{ID: 1, Name: "Acme", Phone: "555-0100", Active: true}, nil)

	w := perform(leadRouter(svc, 7), "POST", "/leads", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got lead.LeadResponse
	decode(t, w, &got)
	assert.Equal(t, int64(1), got.ID)
	assert.True(t, got.Active)
	svc.AssertExpectations(t)
}

func TestLeadHandler_Create_MissingFieldsNeverReachService(t *testing.T) {
	svc := new(mockLeadService)

	w := perform(leadRouter(svc, 7), "POST", "/leads", map[string]string{"email": "a@b.co"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w, nil)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
	assert.ElementsMatch(t, []string{"name", "phone"}, fields)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeadHandler_Create_DomainValidation(t *testing.T) {
	svc := new(mockLeadService)
	req := lead.CreateLeadRequest{Name: " ", Phone: "555"}
	svc.On("Create", mock.Anything, req).Return(nil, shared.NewValidationError("name", "must not be empty"))

	w := perform(leadRouter(svc, 7), "POST", "/leads", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name", decode(t, w, nil).Error.Details[0].Field)
}

func TestLeadHandler_List(t *testing.T) {
	svc := new(mockLeadService)
	active := true
	svc.On("List", mock.Anything, mock.MatchedBy(func(f lead.LeadListFilter) bool {
		return f.Search == "acme" && f.Active != nil && *f.Active == active && f.Page == 2 && f.PageSize == 10
	})).Return([]lead.LeadResponse{{ID: 11}}, int64(11), nil)

	w := perform(leadRouter(svc, 7), "GET", "/leads?search=acme&active=true&page=2&page_size=10", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w, nil)
	assert.Equal(t, int64(11), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}

func TestLeadHandler_GetByID_NotFound(t *testing.T) {
	svc := new(mockLeadService)
	svc.On("GetByID", mock.Anything, int64(99)).Return(nil, shared.NewNotFoundError("lead", 99))

	w := perform(leadRouter(svc, 7), "GET", "/leads/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w, nil).Error.Code)
}

func TestLeadHandler_Assign(t *testing.T) {
	svc := new(mockLeadService)
	userID := int64(3)
	svc.On("Assign", mock.Anything, int64(5), lead.AssignRequest{UserID: &userID}).
		Return(&lead.LeadResponse{ID: 5, AssignedUserID: &userID}, nil)

	w := perform(leadRouter(svc, 7), "PATCH", "/leads/5/assignee", map[string]int64{"assigned_user_id": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestLeadHandler_Deactivate_Twice(t *testing.T) {
	svc := new(mockLeadService)
	svc.On("Deactivate", mock.Anything, int64(5)).
		Return(nil, shared.NewDomainError("ALREADY_INACTIVE", "Lead is already inactive"))

	w := perform(leadRouter(svc, 7), "POST", "/leads/5/deactivate", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLeadHandler_ListNotes(t *testing.T) {
	svc := new(mockLeadService)
	now := time.Now().UTC()
	svc.On("ListNotes", mock.Anything, int64(5)).Return([]lead.NoteResponse{
		{ID: 2, LeadID: 5, Note: "second", AuthorID: 7, AuthorName: "Alice", CreatedAt: now},
		{ID: 1, LeadID: 5, Note: "first", AuthorID: 7, AuthorName: "Alice", CreatedAt: now.Add(-time.Hour)},
	}, nil)

	w := perform(leadRouter(svc, 7), "GET", "/leads/5/notes", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var notes []lead.NoteResponse
	decode(t, w, &notes)
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Note)
	assert.Equal(t, "Alice", notes[0].AuthorName)
}

func TestLeadHandler_ListNotes_EmptyIsArray(t *testing.T) {
	svc := new(mockLeadService)
	svc.On("ListNotes", mock.Anything, int64(5)).Return([]lead.NoteResponse{}, nil)

	w := perform(leadRouter(svc, 7), "GET", "/leads/5/notes", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestLeadHandler_AddNote_UsesCaller(t *testing.T) {
	svc := new(mockLeadService)
	svc.On("AddNote", mock.Anything, int64(5), int64(7), lead.AddNoteRequest{Note: "Called back"}).
		Return(&lead.NoteResponse{ID: 3, LeadID: 5, AuthorID: 7, Note: "Called back"}, nil)

	w := perform(leadRouter(svc, 7), "POST", "/leads/5/notes", map[string]string{"note": "Called back"})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestLeadHandler_AddNote_Unauthenticated(t *testing.T) {
	svc := new(mockLeadService)
	h := NewLeadHandler(svc)
	r := newTestRouter()
	r.POST("/leads/:id/notes", h.AddNote)

	w := perform(r, "POST", "/leads/5/notes", map[string]string{"note": "x"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "AddNote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLeadHandler_AddNote_StoreFailure(t *testing.T) {
	svc := new(mockLeadService)
	svc.On("AddNote", mock.Anything, int64(5), int64(7), mock.Anything).
		Return(nil, shared.NewStoreError("lead_note.create", assert.AnError))

	w := perform(leadRouter(svc, 7), "POST", "/leads/5/notes", map[string]string{"note": "x"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "STORE_ERROR", decode(t, w, nil).Error.Code)
}
