package utils

import "github.com/google/uuid"

// UUIDGenerator produces identifiers for exported snapshots. Time-ordered
// v7 UUIDs are preferred so that exports sort by creation.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
