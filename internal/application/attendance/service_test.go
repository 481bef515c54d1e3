package attendance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/validate"
)

type mockAttendanceAPI struct{ mock.Mock }

func (m *mockAttendanceAPI) List(ctx context.Context) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.AttendanceRecord)
	return items, args.Error(1)
}
func (m *mockAttendanceAPI) Create(ctx context.Context, v *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	args := m.Called(ctx, v)
	if r, _ := args.Get(0).(*domain.AttendanceRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAttendanceAPI) Update(ctx context.Context, id int64, v *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	args := m.Called(ctx, id, v)
	if r, _ := args.Get(0).(*domain.AttendanceRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAttendanceAPI) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockAttendanceAPI) ListBySession(ctx context.Context, sessionID int64) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, sessionID)
	items, _ := args.Get(0).([]domain.AttendanceRecord)
	return items, args.Error(1)
}
func (m *mockAttendanceAPI) ListByLearner(ctx context.Context, learnerID int64) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, learnerID)
	items, _ := args.Get(0).([]domain.AttendanceRecord)
	return items, args.Error(1)
}
func (m *mockAttendanceAPI) RecordBulk(ctx context.Context, records []domain.AttendanceRecord) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, records)
	items, _ := args.Get(0).([]domain.AttendanceRecord)
	return items, args.Error(1)
}

type mockSessionAPI struct{ mock.Mock }

func (m *mockSessionAPI) Get(ctx context.Context, id int64) (*domain.TrainingSession, error) {
	args := m.Called(ctx, id)
	if s, _ := args.Get(0).(*domain.TrainingSession); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSheet(t *testing.T) {
	records := &mockAttendanceAPI{}
	sessions := &mockSessionAPI{}
	sessions.On("Get", mock.Anything, int64(3)).Return(&domain.TrainingSession{ID: 3, GroupID: 1}, nil)
	records.On("ListBySession", mock.Anything, int64(3)).Return([]domain.AttendanceRecord{
		{LearnerID: 1, Status: domain.AttendancePresent},
		{LearnerID: 2, Status: domain.AttendanceLate},
		{LearnerID: 3, Status: domain.AttendanceAbsent},
	}, nil)
	svc := NewService(ServiceDeps{Attendance: records, Sessions: sessions})

	sheet, err := svc.Sheet(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, int64(3), sheet.Session.ID)
	assert.Equal(t, 1, sheet.Counts[domain.AttendancePresent])
	assert.Equal(t, 1, sheet.Counts[domain.AttendanceLate])
	assert.Equal(t, 1, sheet.Counts[domain.AttendanceAbsent])
	assert.Equal(t, 0, sheet.Counts[domain.AttendanceExcused])
	assert.Equal(t, 66.7, sheet.Rate)
}

func TestSheet_SessionMissing(t *testing.T) {
	records := &mockAttendanceAPI{}
	sessions := &mockSessionAPI{}
	sessions.On("Get", mock.Anything, int64(3)).Return(nil, domain.ErrNotFound)
	records.On("ListBySession", mock.Anything, int64(3)).Return([]domain.AttendanceRecord{}, nil)
	svc := NewService(ServiceDeps{Attendance: records, Sessions: sessions})

	_, err := svc.Sheet(context.Background(), 3)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordBulk_BuildsRecords(t *testing.T) {
	records := &mockAttendanceAPI{}
	want := []domain.AttendanceRecord{
		{SessionID: 3, LearnerID: 1, Status: domain.AttendancePresent},
		{SessionID: 3, LearnerID: 2, Status: domain.AttendanceAbsent, Comment: "malade"},
	}
	records.On("RecordBulk", mock.Anything, want).Return(want, nil)
	svc := NewService(ServiceDeps{Attendance: records})

	out, err := svc.RecordBulk(context.Background(), BulkRequest{SessionID: 3, Entries: []BulkEntry{
		{LearnerID: 1, Status: domain.AttendancePresent},
		{LearnerID: 2, Status: domain.AttendanceAbsent, Comment: "malade"},
	}})

	require.NoError(t, err)
	assert.Len(t, out, 2)
	records.AssertExpectations(t)
}

func TestRecordBulk_Rejects(t *testing.T) {
	svc := NewService(ServiceDeps{Attendance: &mockAttendanceAPI{}})

	_, err := svc.RecordBulk(context.Background(), BulkRequest{SessionID: 3})
	assert.True(t, validate.IsValidation(err))

	_, err = svc.RecordBulk(context.Background(), BulkRequest{SessionID: 3, Entries: []BulkEntry{
		{LearnerID: 1, Status: "HERE"},
	}})
	assert.True(t, validate.IsValidation(err))

	_, err = svc.RecordBulk(context.Background(), BulkRequest{SessionID: 3, Entries: []BulkEntry{
		{LearnerID: 1, Status: domain.AttendancePresent},
		{LearnerID: 1, Status: domain.AttendanceAbsent},
	}})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestByLearner_EmptyHistory(t *testing.T) {
	records := &mockAttendanceAPI{}
	records.On("ListByLearner", mock.Anything, int64(8)).Return(nil, nil)
	svc := NewService(ServiceDeps{Attendance: records})

	h, err := svc.ByLearner(context.Background(), 8)

	require.NoError(t, err)
	assert.NotNil(t, h.Records)
	assert.Equal(t, 0.0, h.Rate)
}

func TestRate_PropagatesUpstream(t *testing.T) {
	records := &mockAttendanceAPI{}
	records.On("List", mock.Anything).Return(nil, errors.Join(domain.ErrUpstream, errors.New("boom")))
	svc := NewService(ServiceDeps{Attendance: records})

	_, err := svc.Rate(context.Background())

	assert.ErrorIs(t, err, domain.ErrUpstream)
}
