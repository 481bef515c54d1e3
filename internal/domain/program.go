package domain

// Program (formation) is a training program groups are enrolled in.
type Program struct {
	ID            int64   `json:"id"`
	Title         string  `json:"titre" validate:"required"`
	Description   string  `json:"description,omitempty"`
	DurationHours int     `json:"dureeHeures" validate:"gte=0"`
	Price         float64 `json:"prix" validate:"gte=0"`
	Active        bool    `json:"actif"`
}
