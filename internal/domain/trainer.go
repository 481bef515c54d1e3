package domain

// Trainer (formateur) is a staff member leading groups.
type Trainer struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"prenom" validate:"required"`
	LastName   string `json:"nom" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"telephone,omitempty"`
	Speciality string `json:"specialite,omitempty"`
}
