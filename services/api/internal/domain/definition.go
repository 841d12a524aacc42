package domain

import "time"

// BadgeDefinition describes one reward type that mint units belong to.
type BadgeDefinition struct {
	Code        string
	Name        string
	Description string
	CreatedAt   time.Time
}
