package domain

import "encoding/json"

// Group (groupe) is a cohort enrolled in a training program.
type Group struct {
	ID        int64  `json:"id"`
	Name      string `json:"nom" validate:"required"`
	ProgramID int64  `json:"formationId,omitempty"`
	TrainerID int64  `json:"formateurId,omitempty"`
	Capacity  int    `json:"capacite" validate:"gte=0"`
	StartDate Date   `json:"dateDebut"`
	EndDate   Date   `json:"dateFin"`
}

func (g *Group) UnmarshalJSON(b []byte) error {
	type plain Group
	var raw struct {
		plain
		Program *Ref `json:"formation"`
		Trainer *Ref `json:"formateur"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*g = Group(raw.plain)
	g.ProgramID = refID(g.ProgramID, raw.Program)
	g.TrainerID = refID(g.TrainerID, raw.Trainer)
	return nil
}
