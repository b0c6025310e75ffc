// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel and AggregateModel shared by every table
//   - lead.go: leads and lead_notes
//   - identity.go: users and teams
//   - finance.go: transaction_entries
//   - messaging.go: messages (canned and template)
package models
