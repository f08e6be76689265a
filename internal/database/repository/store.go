package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
)

// Repository errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrUnknownField        = errors.New("unknown field")
	ErrUniquenessViolation = errors.New("uniqueness violation")
	ErrReferenceViolation  = errors.New("referenced record does not exist")
)

// Store defines generic CRUD over one entity kind. Every call runs in its
// own transaction; a failed write leaves nothing behind.
type Store[T models.Entity] interface {
	GetByID(ctx context.Context, id uint) (*T, error)
	GetAll(ctx context.Context) ([]T, error)
	GetOneByField(ctx context.Context, field string, value any) (*T, error)
	GetManyByField(ctx context.Context, field string, value any) ([]T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T, patch map[string]any) error
	Remove(ctx context.Context, id uint) error
}

type store[T models.Entity] struct {
	db *gorm.DB
}

// NewStore creates a generic store for entity kind T
func NewStore[T models.Entity](db *gorm.DB) Store[T] {
	return &store[T]{db: db}
}

func (s *store[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.First(&entity, id).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

func (s *store[T]) GetAll(ctx context.Context) ([]T, error) {
	entities := make([]T, 0)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Order("id").Find(&entities).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return entities, nil
}

func (s *store[T]) GetOneByField(ctx context.Context, field string, value any) (*T, error) {
	column, err := s.column(field)
	if err != nil {
		return nil, err
	}

	var entity T
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
			First(&entity).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

func (s *store[T]) GetManyByField(ctx context.Context, field string, value any) ([]T, error) {
	column, err := s.column(field)
	if err != nil {
		return nil, err
	}

	entities := make([]T, 0)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
			Order("id").
			Find(&entities).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return entities, nil
}

func (s *store[T]) Create(ctx context.Context, entity *T) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(entity).Error
	})
	return translateError(err)
}

// Update writes the keys of patch that name a column of T, ignoring the
// primary key and anything unknown, then reloads entity from the database.
func (s *store[T]) Update(ctx context.Context, entity *T, patch map[string]any) error {
	sch, err := s.schema()
	if err != nil {
		return err
	}

	updates := make(map[string]any, len(patch))
	for key, value := range patch {
		field := sch.LookUpField(key)
		if field == nil || field.DBName == "" || field.PrimaryKey {
			continue
		}
		updates[field.DBName] = value
	}

	if len(updates) == 0 {
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(entity).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(entity).Error
	})
	return translateError(err)
}

// Remove hard-deletes the row; dependent rows go with it through the
// ON DELETE CASCADE foreign keys. Removing a missing id is not an error.
func (s *store[T]) Remove(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(new(T), id).Error
	})
	return translateError(err)
}

func (s *store[T]) schema() (*schema.Schema, error) {
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, err
	}
	return stmt.Schema, nil
}

// column resolves a Go field name or column name to a column name of T
func (s *store[T]) column(name string) (string, error) {
	sch, err := s.schema()
	if err != nil {
		return "", err
	}

	field := sch.LookUpField(name)
	if field == nil || field.DBName == "" {
		return "", fmt.Errorf("%w: %s has no attribute %q", ErrUnknownField, sch.Table, name)
	}
	return field.DBName, nil
}

// translateError maps driver and gorm errors onto the repository errors
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrUniquenessViolation, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrReferenceViolation, err)
	}

	// Drivers without a translator still report constraint names in the text
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrUniquenessViolation, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrReferenceViolation, err)
	}

	return err
}
