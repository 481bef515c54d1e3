package domain

import "encoding/json"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

func (s *AttendanceStatus) UnmarshalJSON(b []byte) error {
	v, err := upper(b)
	*s = AttendanceStatus(v)
	return err
}

// Attended reports whether the learner was physically in the session.
func (s AttendanceStatus) Attended() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// AttendanceRecord (presence) marks one learner's attendance at one session.
type AttendanceRecord struct {
	ID        int64            `json:"id"`
	SessionID int64            `json:"sessionId" validate:"required"`
	LearnerID int64            `json:"apprenantId" validate:"required"`
	Status    AttendanceStatus `json:"statut" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	Comment   string           `json:"commentaire,omitempty"`
}

func (a *AttendanceRecord) UnmarshalJSON(b []byte) error {
	type plain AttendanceRecord
	var raw struct {
		plain
		Session *Ref `json:"session"`
		Learner *Ref `json:"apprenant"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*a = AttendanceRecord(raw.plain)
	a.SessionID = refID(a.SessionID, raw.Session)
	a.LearnerID = refID(a.LearnerID, raw.Learner)
	return nil
}

// AttendanceRate is the share of attended records as a percentage rounded to one decimal.
// It returns 0 for an empty slice.
func AttendanceRate(records []AttendanceRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	attended := 0
	for _, r := range records {
		if r.Status.Attended() {
			attended++
		}
	}
	return Round1(float64(attended) * 100 / float64(len(records)))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	if v < 0 {
		return -Round1(-v)
	}
	return float64(int64(v*10+0.5)) / 10
}
