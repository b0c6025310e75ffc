package identity

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// Team groups users. Membership is a plain reference on the user.
type Team struct {
	shared.BaseEntity
	Name        string
	Description string
}

// NewTeam creates a team
func NewTeam(name, description string) (*Team, error) {
	name = strings.TrimSpace(name)
	if msg := validateName(name); msg != "" {
		return nil, shared.NewValidationError("name", msg)
	}

	return &Team{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}, nil
}

// Rename changes the team name
func (t *Team) Rename(name string) error {
	name = strings.TrimSpace(name)
	if msg := validateName(name); msg != "" {
		return shared.NewValidationError("name", msg)
	}
	t.Name = name
	t.UpdatedAt = time.Now()
	return nil
}
