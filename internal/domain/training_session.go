package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type SessionStatus string

const (
	SessionPlanned   SessionStatus = "PLANNED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionCancelled SessionStatus = "CANCELLED"
)

func (s *SessionStatus) UnmarshalJSON(b []byte) error {
	v, err := upper(b)
	*s = SessionStatus(v)
	return err
}

// TrainingSession is one scheduled class of a group (a /sessions record upstream).
type TrainingSession struct {
	ID        int64         `json:"id"`
	GroupID   int64         `json:"groupeId" validate:"required"`
	TrainerID int64         `json:"formateurId,omitempty"`
	Date      Date          `json:"date"`
	StartTime string        `json:"heureDebut" validate:"required"`
	EndTime   string        `json:"heureFin" validate:"required"`
	Room      string        `json:"salle,omitempty"`
	Status    SessionStatus `json:"statut,omitempty" validate:"omitempty,oneof=PLANNED COMPLETED CANCELLED"`
}

func (s *TrainingSession) UnmarshalJSON(b []byte) error {
	type plain TrainingSession
	var raw struct {
		plain
		Group   *Ref `json:"groupe"`
		Trainer *Ref `json:"formateur"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = TrainingSession(raw.plain)
	s.GroupID = refID(s.GroupID, raw.Group)
	s.TrainerID = refID(s.TrainerID, raw.Trainer)
	return nil
}

// ClockMinutes converts "HH:MM" or "HH:MM:SS" into minutes after midnight.
func ClockMinutes(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q: %w", clock, ErrBadRequest)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q: %w", clock, ErrBadRequest)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q: %w", clock, ErrBadRequest)
	}
	return h*60 + m, nil
}
