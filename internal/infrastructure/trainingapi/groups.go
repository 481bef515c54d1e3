package trainingapi

import (
	"context"

	"github.com/go-training-admin/internal/domain"
)

// Groups is the /groupes collection.
type Groups struct {
	*Resource[domain.Group]
}

// ListByProgram returns the groups enrolled in a training program.
func (g *Groups) ListByProgram(ctx context.Context, programID int64) ([]domain.Group, error) {
	return chain(ctx, "groupes.by_program",
		try("program route", func(ctx context.Context) ([]domain.Group, error) {
			return getList[domain.Group](ctx, g.c, idPath(g.path+"/formation", programID), nil)
		}),
		try("local filter", func(ctx context.Context) ([]domain.Group, error) {
			all, err := getList[domain.Group](ctx, g.c, g.path, nil)
			if err != nil {
				return nil, err
			}
			return filter(all, func(x domain.Group) bool { return x.ProgramID == programID }), nil
		}),
	)
}
