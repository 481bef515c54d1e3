package attendance

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/validate"
)

// Sheet is the roll call of one session.
type Sheet struct {
	Session domain.TrainingSession          `json:"session"`
	Records []domain.AttendanceRecord       `json:"presences"`
	Counts  map[domain.AttendanceStatus]int `json:"counts"`
	Rate    float64                         `json:"attendance_rate"`
}

// History is a learner's attendance across sessions.
type History struct {
	LearnerID int64                           `json:"apprenantId"`
	Records   []domain.AttendanceRecord       `json:"presences"`
	Counts    map[domain.AttendanceStatus]int `json:"counts"`
	Rate      float64                         `json:"attendance_rate"`
}

// BulkRequest records the roll call of a session in one call.
type BulkRequest struct {
	SessionID int64       `json:"sessionId" validate:"required"`
	Entries   []BulkEntry `json:"presences" validate:"required,min=1,dive"`
}

type BulkEntry struct {
	LearnerID int64                   `json:"apprenantId" validate:"required"`
	Status    domain.AttendanceStatus `json:"statut" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
	Comment   string                  `json:"commentaire,omitempty"`
}

type Service interface {
	Sheet(ctx context.Context, sessionID int64) (*Sheet, error)
	RecordBulk(ctx context.Context, req BulkRequest) ([]domain.AttendanceRecord, error)
	Record(ctx context.Context, r *domain.AttendanceRecord) (*domain.AttendanceRecord, error)
	Update(ctx context.Context, id int64, r *domain.AttendanceRecord) (*domain.AttendanceRecord, error)
	Delete(ctx context.Context, id int64) error
	ByLearner(ctx context.Context, learnerID int64) (*History, error)
	Rate(ctx context.Context) (float64, error)
}

type attendanceAPI interface {
	List(ctx context.Context) ([]domain.AttendanceRecord, error)
	Create(ctx context.Context, v *domain.AttendanceRecord) (*domain.AttendanceRecord, error)
	Update(ctx context.Context, id int64, v *domain.AttendanceRecord) (*domain.AttendanceRecord, error)
	Delete(ctx context.Context, id int64) error
	ListBySession(ctx context.Context, sessionID int64) ([]domain.AttendanceRecord, error)
	ListByLearner(ctx context.Context, learnerID int64) ([]domain.AttendanceRecord, error)
	RecordBulk(ctx context.Context, records []domain.AttendanceRecord) ([]domain.AttendanceRecord, error)
}

type sessionAPI interface {
	Get(ctx context.Context, id int64) (*domain.TrainingSession, error)
}

type service struct {
	records  attendanceAPI
	sessions sessionAPI
}

type ServiceDeps struct {
	Attendance attendanceAPI
	Sessions   sessionAPI
}

func NewService(deps ServiceDeps) Service {
	return &service{records: deps.Attendance, sessions: deps.Sessions}
}

func (s *service) Sheet(ctx context.Context, sessionID int64) (*Sheet, error) {
	var (
		session *domain.TrainingSession
		records []domain.AttendanceRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		session, err = s.sessions.Get(gctx, sessionID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.records.ListBySession(gctx, sessionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.AttendanceRecord{}
	}
	return &Sheet{
		Session: *session,
		Records: records,
		Counts:  CountByStatus(records),
		Rate:    domain.AttendanceRate(records),
	}, nil
}

func (s *service) RecordBulk(ctx context.Context, req BulkRequest) ([]domain.AttendanceRecord, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(req.Entries))
	records := make([]domain.AttendanceRecord, 0, len(req.Entries))
	for _, e := range req.Entries {
		if seen[e.LearnerID] {
			return nil, fmt.Errorf("learner %d listed twice: %w", e.LearnerID, domain.ErrBadRequest)
		}
		seen[e.LearnerID] = true
		records = append(records, domain.AttendanceRecord{
			SessionID: req.SessionID,
			LearnerID: e.LearnerID,
			Status:    e.Status,
			Comment:   e.Comment,
		})
	}
	return s.records.RecordBulk(ctx, records)
}

func (s *service) Record(ctx context.Context, r *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	if err := validate.Struct(r); err != nil {
		return nil, err
	}
	return s.records.Create(ctx, r)
}

func (s *service) Update(ctx context.Context, id int64, r *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	if id <= 0 {
		return nil, domain.ErrBadRequest
	}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}
	r.ID = id
	return s.records.Update(ctx, id, r)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.records.Delete(ctx, id)
}

func (s *service) ByLearner(ctx context.Context, learnerID int64) (*History, error) {
	records, err := s.records.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.AttendanceRecord{}
	}
	return &History{
		LearnerID: learnerID,
		Records:   records,
		Counts:    CountByStatus(records),
		Rate:      domain.AttendanceRate(records),
	}, nil
}

// Rate is the center-wide attendance rate.
func (s *service) Rate(ctx context.Context) (float64, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return 0, err
	}
	return domain.AttendanceRate(records), nil
}

// CountByStatus counts records per status. Every known status is present, possibly 0.
func CountByStatus(records []domain.AttendanceRecord) map[domain.AttendanceStatus]int {
	counts := map[domain.AttendanceStatus]int{
		domain.AttendancePresent: 0,
		domain.AttendanceAbsent:  0,
		domain.AttendanceLate:    0,
		domain.AttendanceExcused: 0,
	}
	for _, r := range records {
		counts[r.Status]++
	}
	return counts
}
