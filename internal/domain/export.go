package domain

import "time"

type ExportKind string

const (
	ExportPayments   ExportKind = "payments"
	ExportAttendance ExportKind = "attendance"
	ExportLearners   ExportKind = "learners"
)

// Valid reports whether k is a supported export kind.
func (k ExportKind) Valid() bool {
	switch k {
	case ExportPayments, ExportAttendance, ExportLearners:
		return true
	}
	return false
}

// Export is a CSV snapshot stored in S3.
type Export struct {
	ExportID  string     `json:"id" dynamodbav:"export_id"`
	Kind      ExportKind `json:"kind" dynamodbav:"kind"`
	Object    string     `json:"object" dynamodbav:"object"`
	Rows      int        `json:"rows" dynamodbav:"rows"`
	Hash      string     `json:"hash" dynamodbav:"hash"`
	CreatedBy string     `json:"created_by" dynamodbav:"created_by"`
	CreatedAt time.Time  `json:"created" dynamodbav:"created_at"`
	URL       string     `json:"url,omitempty" dynamodbav:"-"`
}
