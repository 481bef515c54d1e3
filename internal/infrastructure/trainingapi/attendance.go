package trainingapi

import (
	"context"
	"net/http"

	"github.com/go-training-admin/internal/domain"
)

// Attendance is the /presences collection.
type Attendance struct {
	*Resource[domain.AttendanceRecord]
}

func (a *Attendance) ListBySession(ctx context.Context, sessionID int64) ([]domain.AttendanceRecord, error) {
	return chain(ctx, "presences.by_session",
		try("session route", func(ctx context.Context) ([]domain.AttendanceRecord, error) {
			return getList[domain.AttendanceRecord](ctx, a.c, idPath(a.path+"/session", sessionID), nil)
		}),
		try("local filter", func(ctx context.Context) ([]domain.AttendanceRecord, error) {
			all, err := getList[domain.AttendanceRecord](ctx, a.c, a.path, nil)
			if err != nil {
				return nil, err
			}
			return filter(all, func(x domain.AttendanceRecord) bool { return x.SessionID == sessionID }), nil
		}),
	)
}

func (a *Attendance) ListByLearner(ctx context.Context, learnerID int64) ([]domain.AttendanceRecord, error) {
	return chain(ctx, "presences.by_learner",
		try("learner route", func(ctx context.Context) ([]domain.AttendanceRecord, error) {
			return getList[domain.AttendanceRecord](ctx, a.c, idPath(a.path+"/apprenant", learnerID), nil)
		}),
		try("local filter", func(ctx context.Context) ([]domain.AttendanceRecord, error) {
			all, err := getList[domain.AttendanceRecord](ctx, a.c, a.path, nil)
			if err != nil {
				return nil, err
			}
			return filter(all, func(x domain.AttendanceRecord) bool { return x.LearnerID == learnerID }), nil
		}),
	)
}

// RecordBulk stores a batch of records. Without a bulk route it posts them one by one and
// stops at the first failure.
func (a *Attendance) RecordBulk(ctx context.Context, records []domain.AttendanceRecord) ([]domain.AttendanceRecord, error) {
	return chain(ctx, "presences.bulk",
		try("bulk route", func(ctx context.Context) ([]domain.AttendanceRecord, error) {
			data, err := a.c.raw(ctx, http.MethodPost, a.path+"/bulk", nil, records)
			if err != nil {
				return nil, err
			}
			stored, err := decodeList[domain.AttendanceRecord](data)
			if err != nil {
				return nil, &DecodeError{Path: a.path + "/bulk", Err: err}
			}
			if len(stored) == 0 {
				return records, nil
			}
			return stored, nil
		}),
		try("one by one", func(ctx context.Context) ([]domain.AttendanceRecord, error) {
			stored := make([]domain.AttendanceRecord, 0, len(records))
			for i := range records {
				var out domain.AttendanceRecord
				data, err := a.c.raw(ctx, http.MethodPost, a.path, nil, &records[i])
				if err != nil {
					return nil, err
				}
				if err := decodeInto(data, a.path, &out); err != nil {
					return nil, err
				}
				if out.ID == 0 {
					out = records[i]
				}
				stored = append(stored, out)
			}
			return stored, nil
		}),
	)
}
