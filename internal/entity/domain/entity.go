package domain

import (
	"errors"
	"time"
)

// Entity is an organizational node in the church hierarchy.
type Entity struct {
	ID        string
	Name      string
	Level     Level
	CreatedAt time.Time
}

// Level is the hierarchy level of an entity.
type Level string

const (
	LevelNational Level = "NATIONAL"
	LevelRegional Level = "REGIONAL"
	LevelDistrict Level = "DISTRICT"
	LevelChurch   Level = "CHURCH"
)

// Validate validates the entity for persistence. Returns an error describing the first validation failure.
func (e *Entity) Validate() error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	switch e.Level {
	case LevelNational, LevelRegional, LevelDistrict, LevelChurch:
		return nil
	default:
		return errors.New("invalid entity level")
	}
}
