package domain

import "github.com/google/uuid"

// Country is immutable reference data keyed by ISO 3166 alpha-2 code.
type Country struct {
	ID   uuid.UUID
	Code string
	Name string
}

// Language is immutable reference data keyed by ISO 639-1 code.
type Language struct {
	ID   uuid.UUID
	Code string
	Name string
}
