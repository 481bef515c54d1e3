package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/pkg/validate"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) List(ctx context.Context) ([]domain.Trainer, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]domain.Trainer)
	return items, args.Error(1)
}
func (m *mockStore) Get(ctx context.Context, id int64) (*domain.Trainer, error) {
	args := m.Called(ctx, id)
	if v, _ := args.Get(0).(*domain.Trainer); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Create(ctx context.Context, v *domain.Trainer) (*domain.Trainer, error) {
	args := m.Called(ctx, v)
	if out, _ := args.Get(0).(*domain.Trainer); out != nil {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Update(ctx context.Context, id int64, v *domain.Trainer) (*domain.Trainer, error) {
	args := m.Called(ctx, id, v)
	if out, _ := args.Get(0).(*domain.Trainer); out != nil {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func trainers() []domain.Trainer {
	return []domain.Trainer{
		{ID: 1, FirstName: "Ana", LastName: "Silva", Speciality: "Go"},
		{ID: 2, FirstName: "Bruno", LastName: "Costa", Email: "bruno@ANALYTICS.io"},
		{ID: 3, FirstName: "Chloé", LastName: "Martin", Speciality: "Réseaux"},
	}
}

func TestList_SearchAndPage(t *testing.T) {
	st := &mockStore{}
	st.On("List", mock.Anything).Return(trainers(), nil)
	svc := New[domain.Trainer](st, MatchTrainer)

	page, err := svc.List(context.Background(), Query{Search: "ana", PerPage: 1, Page: 2})

	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.MaxPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(2), page.Data[0].ID)
}

func TestListWhere_Predicate(t *testing.T) {
	st := &mockStore{}
	st.On("List", mock.Anything).Return(trainers(), nil)
	svc := New[domain.Trainer](st, MatchTrainer)

	page, err := svc.ListWhere(context.Background(), Query{}, func(t domain.Trainer) bool { return t.Speciality != "" })

	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestCreate_ValidatesBeforeCallingUpstream(t *testing.T) {
	st := &mockStore{}
	svc := New[domain.Trainer](st, MatchTrainer)

	_, err := svc.Create(context.Background(), &domain.Trainer{FirstName: "x", Email: "not-an-email"})

	require.Error(t, err)
	assert.True(t, validate.IsValidation(err))
	st.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdate_RejectsMissingID(t *testing.T) {
	svc := New[domain.Trainer](&mockStore{}, MatchTrainer)
	_, err := svc.Update(context.Background(), 0, &domain.Trainer{FirstName: "a", LastName: "b"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUpdate_PassesThrough(t *testing.T) {
	st := &mockStore{}
	in := &domain.Trainer{FirstName: "a", LastName: "b"}
	st.On("Update", mock.Anything, int64(4), in).Return(&domain.Trainer{ID: 4, FirstName: "a", LastName: "b"}, nil)
	svc := New[domain.Trainer](st, MatchTrainer)

	out, err := svc.Update(context.Background(), 4, in)

	require.NoError(t, err)
	assert.Equal(t, int64(4), out.ID)
}

func TestMatchProgram(t *testing.T) {
	p := domain.Program{Title: "Développement Web", Description: "HTML, CSS"}
	assert.True(t, MatchProgram(p, "web"))
	assert.True(t, MatchProgram(p, "css"))
	assert.False(t, MatchProgram(p, "java"))
}
