// Package gormstore implements the repositories over gorm. Nested tour values
// (locations, dates, images, guide references) are stored as JSON columns,
// which keeps the document shape on postgres and sqlite alike.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/repository"
)

// NewStores wires every repository to db.
func NewStores(db *gorm.DB) *repository.Stores {
	return &repository.Stores{
		Tours:   NewTourRepository(db),
		Reviews: NewReviewRepository(db),
		Users:   NewUserRepository(db),
	}
}

// applyQuery translates the descriptor into gorm clauses. Column names come
// from the schema only; values are always bound parameters.
func applyQuery(db *gorm.DB, schema *query.Schema, q query.Query) *gorm.DB {
	db = applyFilter(db, schema, q.Filter)

	for _, s := range q.Sort {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: schema.MustField(s.Field).Column},
			Desc:   s.Desc,
		})
	}

	if cols := columns(schema, q.Projection.Include); len(cols) > 0 {
		db = db.Select(cols)
	} else if cols := columns(schema, q.Projection.Exclude); len(cols) > 0 {
		db = db.Omit(cols...)
	}

	return db.Offset(q.Skip).Limit(q.EffectiveLimit())
}

func applyFilter(db *gorm.DB, schema *query.Schema, preds []query.Predicate) *gorm.DB {
	for _, p := range preds {
		col := clause.Column{Name: schema.MustField(p.Field).Column}
		switch p.Op {
		case query.OpEq:
			db = db.Where(clause.Eq{Column: col, Value: p.Value})
		case query.OpIn:
			values, _ := p.Value.([]any)
			db = db.Where(clause.IN{Column: col, Values: values})
		case query.OpGte:
			db = db.Where(clause.Gte{Column: col, Value: p.Value})
		case query.OpGt:
			db = db.Where(clause.Gt{Column: col, Value: p.Value})
		case query.OpLte:
			db = db.Where(clause.Lte{Column: col, Value: p.Value})
		case query.OpLt:
			db = db.Where(clause.Lt{Column: col, Value: p.Value})
		}
	}
	return db
}

func columns(schema *query.Schema, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, schema.MustField(name).Column)
	}
	return out
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case isDuplicate(err):
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	default:
		return err
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// Purge removes every review, tour and user.
func Purge(ctx context.Context, db *gorm.DB) error {
	all := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Review{}, &models.Tour{}, &models.User{}} {
		if err := all.Delete(model).Error; err != nil {
			return fmt.Errorf("purge %T: %w", model, err)
		}
	}
	return nil
}
