// Package model resolves table names and hydrates result rows for
// struct-typed models using gorm's schema parser, so models follow the same
// tag conventions (`gorm:"column:..."`) used across the ecosystem.
package model

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm/schema"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

var (
	schemaCache = &sync.Map{}
	namer       = schema.NamingStrategy{}
)

// Parse returns the parsed schema for a model value, caching by type.
func Parse(model interface{}) (*schema.Schema, error) {
	if model == nil {
		return nil, fmt.Errorf("parse model: nil model")
	}
	s, err := schema.Parse(model, schemaCache, namer)
	if err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	return s, nil
}

// TableName returns the table the model maps to, honoring Tabler
// implementations and the naming strategy.
func TableName(model interface{}) (string, error) {
	s, err := Parse(model)
	if err != nil {
		return "", err
	}
	return s.Table, nil
}

// Hydrate instantiates one model value per row, assigning columns to fields
// by their database names. Unknown columns are ignored; NULLs leave the field
// at its zero value.
func Hydrate(ctx context.Context, rows []domain.Row, model interface{}) ([]interface{}, error) {
	s, err := Parse(model)
	if err != nil {
		return nil, err
	}

	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("hydrate: model must be a struct, got %s", t.Kind())
	}

	instances := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		inst := reflect.New(t)
		for col, val := range row {
			field, ok := s.FieldsByDBName[col]
			if !ok || val == nil {
				continue
			}
			if err := field.Set(ctx, inst.Elem(), val); err != nil {
				return nil, fmt.Errorf("hydrate %s.%s: %w", s.Table, col, err)
			}
		}
		instances = append(instances, inst.Interface())
	}
	return instances, nil
}
