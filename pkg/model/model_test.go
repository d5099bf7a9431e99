package model

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

type Article struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title"`
	Views       int       `gorm:"column:view_count"`
	PublishedAt time.Time `gorm:"column:published_at"`
}

type namedTable struct {
	ID int64 `gorm:"column:id;primaryKey"`
}

func (namedTable) TableName() string { return "custom_name" }

func TestTableName_NamingStrategy(t *testing.T) {
	name, err := TableName(&Article{})
	require.NoError(t, err)
	assert.Equal(t, "articles", name)
}

func TestTableName_TablerOverride(t *testing.T) {
	name, err := TableName(&namedTable{})
	require.NoError(t, err)
	assert.Equal(t, "custom_name", name)
}

func TestTableName_NilModel(t *testing.T) {
	_, err := TableName(nil)
	require.Error(t, err)
}

func TestHydrate(t *testing.T) {
	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := []domain.Row{
		{"id": int64(1), "title": "first", "view_count": int64(10), "published_at": published},
		{"id": int64(2), "title": "second", "view_count": int64(0)},
	}

	instances, err := Hydrate(context.Background(), rows, &Article{})
	require.NoError(t, err)
	require.Len(t, instances, 2)

	first, ok := instances[0].(*Article)
	require.True(t, ok)
	assert.EqualValues(t, 1, first.ID)
	assert.Equal(t, "first", first.Title)
	assert.Equal(t, 10, first.Views)
	assert.True(t, published.Equal(first.PublishedAt))
}

func TestHydrate_IgnoresUnknownColumnsAndNulls(t *testing.T) {
	rows := []domain.Row{
		{"id": int64(3), "title": nil, "unknown_column": "x"},
	}

	instances, err := Hydrate(context.Background(), rows, &Article{})
	require.NoError(t, err)

	inst := instances[0].(*Article)
	assert.EqualValues(t, 3, inst.ID)
	assert.Empty(t, inst.Title)
}

func TestHydrate_RejectsNonStruct(t *testing.T) {
	notAStruct := 42
	_, err := Hydrate(context.Background(), nil, &notAStruct)
	require.Error(t, err)
}
