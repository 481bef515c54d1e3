package domain

import (
	"encoding/json"
	"strings"
)

type LearnerStatus string

const (
	LearnerActive    LearnerStatus = "ACTIVE"
	LearnerInactive  LearnerStatus = "INACTIVE"
	LearnerSuspended LearnerStatus = "SUSPENDED"
)

func (s *LearnerStatus) UnmarshalJSON(b []byte) error {
	v, err := upper(b)
	*s = LearnerStatus(v)
	return err
}

// Learner (apprenant) is a student record of the training center.
type Learner struct {
	ID         int64         `json:"id"`
	FirstName  string        `json:"prenom" validate:"required"`
	LastName   string        `json:"nom" validate:"required"`
	Email      string        `json:"email" validate:"omitempty,email"`
	Phone      string        `json:"telephone,omitempty"`
	GroupID    int64         `json:"groupeId,omitempty"`
	Status     LearnerStatus `json:"statut,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
	EnrolledAt Date          `json:"dateInscription"`
}

func (l *Learner) UnmarshalJSON(b []byte) error {
	type plain Learner
	var raw struct {
		plain
		Group *Ref `json:"groupe"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*l = Learner(raw.plain)
	l.GroupID = refID(l.GroupID, raw.Group)
	return nil
}

// FullName returns "First Last".
func (l Learner) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// IsActive treats an empty status as active; the API omits it for new enrolments.
func (l Learner) IsActive() bool {
	return l.Status == "" || l.Status == LearnerActive
}
