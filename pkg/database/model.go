package database

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm/schema"

	"github.com/Aleph-Alpha/dbfacade/pkg/query"
)

// ModelFactory creates model values. NewEntity builds a fresh, unsaved
// entity; LoadEntity builds one from a stored row. The facade only ever calls
// LoadEntity.
type ModelFactory interface {
	NewEntity() any
	LoadEntity(row query.Row) (any, error)
}

// Hydrator is implemented by models that fill themselves from a row.
type Hydrator interface {
	Hydrate(row query.Row) error
}

// Persistable is implemented by models that track whether they came from
// storage. MarkLoaded is called on every entity built by LoadEntity.
type Persistable interface {
	MarkLoaded()
}

// ModelFunc adapts a pair of functions to ModelFactory.
type ModelFunc struct {
	New  func() any
	Load func(row query.Row) (any, error)
}

// NewEntity calls New, or returns nil when it is not set.
func (f ModelFunc) NewEntity() any {
	if f.New == nil {
		return nil
	}
	return f.New()
}

// LoadEntity calls Load.
func (f ModelFunc) LoadEntity(row query.Row) (any, error) {
	if f.Load == nil {
		return nil, fmt.Errorf("%w: no load function", ErrModelType)
	}
	return f.Load(row)
}

var schemaCache = &sync.Map{}

// StructModel returns a factory producing *T. Rows are mapped onto fields by
// gorm's column naming: `gorm:"column:..."` tags first, snake_case field
// names otherwise. Columns without a matching field are ignored. When *T
// implements Hydrator, Hydrate is used instead.
func StructModel[T any]() ModelFactory {
	return &structModel[T]{}
}

type structModel[T any] struct {
	once   sync.Once
	schema *schema.Schema
	err    error
}

// validator is implemented by factories that can tell up front whether their
// type is usable.
type validator interface {
	validate() error
}

func (m *structModel[T]) NewEntity() any {
	return new(T)
}

func (m *structModel[T]) LoadEntity(row query.Row) (any, error) {
	entity := new(T)

	if hydrator, ok := any(entity).(Hydrator); ok {
		if err := hydrator.Hydrate(row); err != nil {
			return nil, err
		}
	} else if err := m.assign(entity, row); err != nil {
		return nil, err
	}

	if p, ok := any(entity).(Persistable); ok {
		p.MarkLoaded()
	}
	return entity, nil
}

func (m *structModel[T]) assign(entity *T, row query.Row) error {
	s, err := m.parse()
	if err != nil {
		return err
	}

	target := reflect.ValueOf(entity).Elem()
	for column, value := range row {
		field := s.LookUpField(column)
		if field == nil || field.DBName == "" || field.Set == nil {
			continue
		}
		if err := field.Set(context.Background(), target, value); err != nil {
			return fmt.Errorf("column %q: %w", column, err)
		}
	}
	return nil
}

// validate parses the schema of T unless *T hydrates itself.
func (m *structModel[T]) validate() error {
	if _, ok := any(new(T)).(Hydrator); ok {
		return nil
	}
	if _, err := m.parse(); err != nil {
		return fmt.Errorf("model %s: %w", reflect.TypeFor[T](), err)
	}
	return nil
}

func (m *structModel[T]) parse() (*schema.Schema, error) {
	m.once.Do(func() {
		m.schema, m.err = schema.Parse(new(T), schemaCache, schema.NamingStrategy{})
	})
	return m.schema, m.err
}

// SetModel binds factory for the current cycle: All and First return loaded
// entities instead of rows until the next Clear. When table is given it is
// also set as the target table. Factories that can not produce entities, such
// as a StructModel of a non-struct type, are rejected with ErrConfiguration.
func (d *Database) SetModel(factory ModelFactory, table ...string) error {
	if factory == nil {
		return fmt.Errorf("%w: model factory is nil", ErrConfiguration)
	}

	switch f := factory.(type) {
	case ModelFunc:
		if f.Load == nil {
			return fmt.Errorf("%w: model has no load function", ErrConfiguration)
		}
	case *ModelFunc:
		if f == nil || f.Load == nil {
			return fmt.Errorf("%w: model has no load function", ErrConfiguration)
		}
	case validator:
		if err := f.validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	d.model = factory
	if len(table) > 0 && table[0] != "" {
		d.Table(table[0])
	}
	return nil
}

// Model returns the factory bound for the current cycle, or nil.
func (d *Database) Model() ModelFactory {
	return d.model
}
