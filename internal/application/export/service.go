// Package export renders CSV snapshots of upstream data and keeps them in S3.
package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, kind domain.ExportKind, adminID string) (*domain.Export, error)
	List(ctx context.Context) ([]domain.Export, error)
	Get(ctx context.Context, exportID string) (*domain.Export, error)
	Download(ctx context.Context, exportID string) (io.ReadCloser, *domain.Export, error)
	Delete(ctx context.Context, exportID string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type exportStore interface {
	Put(ctx context.Context, e *domain.Export) error
	Get(ctx context.Context, exportID string) (*domain.Export, error)
	List(ctx context.Context) ([]domain.Export, error)
	Delete(ctx context.Context, exportID string) error
}

type lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

type service struct {
	objects    objectStore
	exports    exportStore
	learners   lister[domain.Learner]
	payments   lister[domain.Payment]
	attendance lister[domain.AttendanceRecord]
	urlTTL     time.Duration
	now        func() time.Time
}

type ServiceDeps struct {
	Objects    objectStore
	Exports    exportStore
	Learners   lister[domain.Learner]
	Payments   lister[domain.Payment]
	Attendance lister[domain.AttendanceRecord]
	URLTTL     time.Duration
	Now        func() time.Time
}

func NewService(deps ServiceDeps) Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.URLTTL <= 0 {
		deps.URLTTL = 15 * time.Minute
	}
	return &service{
		objects:    deps.Objects,
		exports:    deps.Exports,
		learners:   deps.Learners,
		payments:   deps.Payments,
		attendance: deps.Attendance,
		urlTTL:     deps.URLTTL,
		now:        deps.Now,
	}
}

func (s *service) Create(ctx context.Context, kind domain.ExportKind, adminID string) (*domain.Export, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown export kind %q: %w", kind, domain.ErrBadRequest)
	}
	rows, err := s.rows(ctx, kind)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := writeCSV(&buf, rows); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(buf.Bytes())

	exportID := id.New()
	key := fmt.Sprintf("exports/%s/%s.csv", kind, exportID)
	size := int64(buf.Len())
	if err := s.objects.Upload(ctx, key, &buf, size); err != nil {
		return nil, err
	}
	e := &domain.Export{
		ExportID:  exportID,
		Kind:      kind,
		Object:    key,
		Rows:      len(rows) - 1,
		Hash:      hex.EncodeToString(sum[:]),
		CreatedBy: adminID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.exports.Put(ctx, e); err != nil {
		return nil, err
	}
	if e.URL, err = s.objects.PresignedURL(ctx, key, s.urlTTL); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns exports newest first, without URLs.
func (s *service) List(ctx context.Context) ([]domain.Export, error) {
	exports, err := s.exports.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(exports, func(i, j int) bool {
		if !exports[i].CreatedAt.Equal(exports[j].CreatedAt) {
			return exports[i].CreatedAt.After(exports[j].CreatedAt)
		}
		return exports[i].ExportID > exports[j].ExportID
	})
	return exports, nil
}

func (s *service) Get(ctx context.Context, exportID string) (*domain.Export, error) {
	e, err := s.exports.Get(ctx, exportID)
	if err != nil {
		return nil, err
	}
	if e.URL, err = s.objects.PresignedURL(ctx, e.Object, s.urlTTL); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Download(ctx context.Context, exportID string) (io.ReadCloser, *domain.Export, error) {
	e, err := s.exports.Get(ctx, exportID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.objects.Download(ctx, e.Object)
	if err != nil {
		return nil, nil, err
	}
	return rc, e, nil
}

func (s *service) Delete(ctx context.Context, exportID string) error {
	e, err := s.exports.Get(ctx, exportID)
	if err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, e.Object); err != nil {
		return err
	}
	return s.exports.Delete(ctx, exportID)
}

// rows returns the header followed by one line per record.
func (s *service) rows(ctx context.Context, kind domain.ExportKind) ([][]string, error) {
	switch kind {
	case domain.ExportPayments:
		items, err := s.payments.List(ctx)
		if err != nil {
			return nil, err
		}
		return PaymentRows(items), nil
	case domain.ExportAttendance:
		items, err := s.attendance.List(ctx)
		if err != nil {
			return nil, err
		}
		return AttendanceRows(items), nil
	default:
		items, err := s.learners.List(ctx)
		if err != nil {
			return nil, err
		}
		return LearnerRows(items), nil
	}
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func PaymentRows(items []domain.Payment) [][]string {
	rows := [][]string{{"id", "apprenant_id", "montant", "date_echeance", "date_paiement", "statut", "methode", "reference"}}
	for _, p := range items {
		rows = append(rows, []string{
			itoa(p.ID), itoa(p.LearnerID),
			strconv.FormatFloat(p.Amount, 'f', 2, 64),
			p.DueDate.String(), p.PaidAt.String(),
			string(p.Status), p.Method, p.Reference,
		})
	}
	return rows
}

func AttendanceRows(items []domain.AttendanceRecord) [][]string {
	rows := [][]string{{"id", "session_id", "apprenant_id", "statut", "commentaire"}}
	for _, a := range items {
		rows = append(rows, []string{itoa(a.ID), itoa(a.SessionID), itoa(a.LearnerID), string(a.Status), a.Comment})
	}
	return rows
}

func LearnerRows(items []domain.Learner) [][]string {
	rows := [][]string{{"id", "nom", "prenom", "email", "telephone", "groupe_id", "statut", "date_inscription"}}
	for _, l := range items {
		group := ""
		if l.GroupID > 0 {
			group = itoa(l.GroupID)
		}
		rows = append(rows, []string{
			itoa(l.ID), l.LastName, l.FirstName, l.Email, l.Phone,
			group, string(l.Status), l.EnrolledAt.String(),
		})
	}
	return rows
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
