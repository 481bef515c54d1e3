package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "PAID"
	PaymentPending PaymentStatus = "PENDING"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

func (s *PaymentStatus) UnmarshalJSON(b []byte) error {
	v, err := upper(b)
	*s = PaymentStatus(v)
	return err
}

// Payment (paiement) is a learner's fee installment.
type Payment struct {
	ID        int64         `json:"id"`
	LearnerID int64         `json:"apprenantId" validate:"required"`
	Amount    float64       `json:"montant" validate:"gt=0"`
	DueDate   Date          `json:"dateEcheance"`
	PaidAt    Date          `json:"datePaiement"`
	Status    PaymentStatus `json:"statut" validate:"required,oneof=PAID PENDING PARTIAL OVERDUE"`
	Method    string        `json:"methode,omitempty"`
	Reference string        `json:"reference,omitempty"`
}

// UnmarshalJSON accepts the amount as a number or a numeric string ("150.00").
func (p *Payment) UnmarshalJSON(b []byte) error {
	type plain Payment
	var raw struct {
		plain
		Learner *Ref        `json:"apprenant"`
		Amount  json.Number `json:"montant"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Payment(raw.plain)
	p.LearnerID = refID(p.LearnerID, raw.Learner)
	if raw.Amount != "" {
		amount, err := raw.Amount.Float64()
		if err != nil {
			return fmt.Errorf("invalid montant %q: %w", raw.Amount, err)
		}
		p.Amount = amount
	}
	return nil
}

// IsOverdue reports whether the payment is unsettled and its due date is before now's day.
// The upstream OVERDUE status alone is not enough; a missing due date is never overdue.
func (p Payment) IsOverdue(now time.Time) bool {
	if p.Status == PaymentPaid {
		return false
	}
	return p.DueDate.Before(NewDate(now))
}

// EffectiveDate is the payment date when set, otherwise the due date.
func (p Payment) EffectiveDate() Date {
	if !p.PaidAt.IsZero() {
		return p.PaidAt
	}
	return p.DueDate
}
