// Package lead holds the use cases for leads and their notes.
package lead

import (
	"context"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/lead"
	"github.com/crm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserFinder looks up users for assignee and author checks
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*identity.User, error)
}

// ServiceConfig holds the dependencies of LeadService
type ServiceConfig struct {
	LeadRepo       lead.LeadRepository
	NoteRepo       lead.NoteRepository
	Users          UserFinder
	TxScope        TransactionScope
	EventPublisher shared.EventPublisher
	Logger         *zap.Logger
}

// LeadService handles lead and note operations
type LeadService struct {
	leadRepo       lead.LeadRepository
	noteRepo       lead.NoteRepository
	users          UserFinder
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(cfg ServiceConfig) *LeadService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	txScope := cfg.TxScope
	if txScope == nil {
		txScope = NewNoOpTransactionScope(cfg.LeadRepo, cfg.NoteRepo)
	}
	return &LeadService{
		leadRepo:       cfg.LeadRepo,
		noteRepo:       cfg.NoteRepo,
		users:          cfg.Users,
		txScope:        txScope,
		eventPublisher: cfg.EventPublisher,
		logger:         logger,
	}
}

// Create validates and stores a new active lead
func (s *LeadService) Create(ctx context.Context, req CreateLeadRequest) (*LeadResponse, error) {
	l, err := lead.NewLead(lead.Contact{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		InitialRemarks: req.InitialRemarks,
	})
	if err != nil {
		return nil, err
	}

	l.ProductID = req.ProductID
	l.SourceID = req.SourceID
	l.StageID = req.StageID

	if req.AssignedUserID != nil {
		if err := s.ensureAssignable(ctx, *req.AssignedUserID); err != nil {
			return nil, err
		}
		l.AssignedUserID = req.AssignedUserID
	}

	if err := s.leadRepo.Save(ctx, l); err != nil {
		return nil, err
	}

	l.RecordCreated()
	s.publish(ctx, l)

	response := ToLeadResponse(l)
	return &response, nil
}

// GetByID retrieves a lead
func (s *LeadService) GetByID(ctx context.Context, id int64) (*LeadResponse, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToLeadResponse(l)
	return &response, nil
}

// List retrieves leads with filtering and pagination
func (s *LeadService) List(ctx context.Context, filter LeadListFilter) ([]LeadResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	if filter.StageID != nil {
		domainFilter.Filters["stage_id"] = *filter.StageID
	}
	if filter.AssignedUserID != nil {
		domainFilter.Filters["assigned_user_id"] = *filter.AssignedUserID
	}

	leads, err := s.leadRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.leadRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToLeadResponses(leads), total, nil
}

// Update replaces the contact fields and references of a lead
func (s *LeadService) Update(ctx context.Context, id int64, req UpdateLeadRequest) (*LeadResponse, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := l.UpdateContact(lead.Contact{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		InitialRemarks: req.InitialRemarks,
	}); err != nil {
		return nil, err
	}
	l.SetReferences(req.ProductID, req.SourceID)

	return s.save(ctx, l)
}

// ChangeStage moves a lead to another stage
func (s *LeadService) ChangeStage(ctx context.Context, id int64, req ChangeStageRequest) (*LeadResponse, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := l.ChangeStage(req.StageID); err != nil {
		return nil, err
	}

	return s.save(ctx, l)
}

// Assign sets or clears the lead's assignee. The assignee must be an active user.
func (s *LeadService) Assign(ctx context.Context, id int64, req AssignRequest) (*LeadResponse, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.UserID != nil {
		if err := s.ensureAssignable(ctx, *req.UserID); err != nil {
			return nil, err
		}
	}

	if err := l.AssignTo(req.UserID); err != nil {
		return nil, err
	}

	return s.save(ctx, l)
}

// Activate marks a lead active
func (s *LeadService) Activate(ctx context.Context, id int64) (*LeadResponse, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := l.Activate(); err != nil {
		return nil, err
	}

	return s.save(ctx, l)
}

// Deactivate marks a lead inactive. Leads are never deleted.
func (s *LeadService) Deactivate(ctx context.Context, id int64) (*LeadResponse, error) {
	l, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := l.Deactivate(); err != nil {
		return nil, err
	}

	return s.save(ctx, l)
}

// ListNotes returns the lead's notes newest-first with author names.
// A lead without notes yields an empty list; a missing lead is not found.
func (s *LeadService) ListNotes(ctx context.Context, leadID int64) ([]NoteResponse, error) {
	exists, err := s.leadRepo.Exists(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewNotFoundError("Lead", leadID)
	}

	views, err := s.noteRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	return ToNoteResponses(views), nil
}

// AddNote appends a note authored by authorID and refreshes the lead's update time
func (s *LeadService) AddNote(ctx context.Context, leadID, authorID int64, req AddNoteRequest) (*NoteResponse, error) {
	note, err := lead.NewNote(leadID, authorID, req.Note)
	if err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewValidationError("author_id", "does not identify a user")
		}
		return nil, err
	}

	var l *lead.Lead
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.LeadRepo().FindByID(ctx, leadID)
		if err != nil {
			return err
		}
		if err := repos.NoteRepo().Create(ctx, note); err != nil {
			return err
		}
		found.NoteAdded(note)
		l = found
		return repos.LeadRepo().Touch(ctx, leadID)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, l)

	response := ToNoteResponse(note, author.DisplayName())
	return &response, nil
}

func (s *LeadService) ensureAssignable(ctx context.Context, userID int64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.NewValidationError("assigned_user_id", "does not identify a user")
		}
		return err
	}
	if !user.Active {
		return shared.NewValidationError("assigned_user_id", "user is inactive")
	}
	return nil
}

func (s *LeadService) save(ctx context.Context, l *lead.Lead) (*LeadResponse, error) {
	if err := s.leadRepo.Save(ctx, l); err != nil {
		return nil, err
	}

	s.publish(ctx, l)

	response := ToLeadResponse(l)
	return &response, nil
}

// publish sends pending events. Failures are logged and never fail the request.
func (s *LeadService) publish(ctx context.Context, l *lead.Lead) {
	events := l.GetDomainEvents()
	l.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish lead events",
			zap.Int64("lead_id", l.ID),
			zap.Error(err))
	}
}
