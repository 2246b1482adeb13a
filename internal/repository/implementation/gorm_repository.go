package implementation

import (
	"context"
	"errors"

	"symptom-checker-be/internal/repository/specification"

	"gorm.io/gorm"
)

type rowMapper[E any, M any] interface {
	ToEntity(m *M) *E
	ToModel(e *E) *M
}

// gormRepository holds the query plumbing shared by the entity repositories.
// E is the domain entity, M the gorm model it is stored as.
type gormRepository[E any, M any] struct {
	db     *gorm.DB
	mapper rowMapper[E, M]
}

func (r gormRepository[E, M]) query(ctx context.Context, specs []specification.Specification) *gorm.DB {
	db := r.db.WithContext(ctx).Model(new(M))
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// create inserts e and copies back the generated columns.
func (r gormRepository[E, M]) create(ctx context.Context, e *E) error {
	m := r.mapper.ToModel(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*e = *r.mapper.ToEntity(m)
	return nil
}

// findOne returns nil, nil when nothing matches.
func (r gormRepository[E, M]) findOne(ctx context.Context, specs []specification.Specification) (*E, error) {
	var m M
	if err := r.query(ctx, specs).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r gormRepository[E, M]) findAll(ctx context.Context, specs []specification.Specification) ([]*E, error) {
	var rows []*M
	if err := r.query(ctx, specs).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*E, 0, len(rows))
	for _, m := range rows {
		out = append(out, r.mapper.ToEntity(m))
	}
	return out, nil
}

func (r gormRepository[E, M]) count(ctx context.Context, specs []specification.Specification) (int64, error) {
	var n int64
	err := r.query(ctx, specs).Count(&n).Error
	return n, err
}

// delete refuses an unfiltered delete and reports how many rows went away.
func (r gormRepository[E, M]) delete(ctx context.Context, specs []specification.Specification) (int64, error) {
	if len(specs) == 0 {
		return 0, errors.New("refusing to delete without a filter")
	}
	res := r.query(ctx, specs).Delete(new(M))
	return res.RowsAffected, res.Error
}
