// Package normalize maps raw driver results into the uniform result shape
// declared by the query intent. Normalization is pure: no I/O, no connection
// access, and the only failure mode is a result structurally incompatible
// with the declared intent.
package normalize

import (
	"context"
	"fmt"
	"strings"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
	"github.com/kasuganosora/sqlbridge/pkg/model"
)

// Normalize shapes a raw driver result according to the declared intent.
func Normalize(raw *domain.RawResult, intent domain.QueryIntent, opts *domain.ExecOptions) (*domain.Result, error) {
	if raw == nil {
		return nil, domain.NewErrMalformedResult(intent, "nil driver result")
	}
	if opts == nil {
		opts = &domain.ExecOptions{}
	}

	// Nest forces SELECT-like shaping even when the intent was left RAW.
	if opts.Nest && intent == domain.IntentRaw {
		intent = domain.IntentSelect
	}

	switch intent {
	case domain.IntentUpdate:
		return &domain.Result{Kind: intent, RowsAffected: raw.RowsAffected}, nil

	case domain.IntentBulkUpdate, domain.IntentBulkDelete:
		return &domain.Result{Kind: intent, RowsAffected: raw.RowsAffected}, nil

	case domain.IntentInsert:
		return &domain.Result{Kind: intent, InsertID: raw.InsertID, RowsAffected: raw.RowsAffected}, nil

	case domain.IntentUpsert:
		// Pinned semantics: exactly one affected row means an insert (1);
		// anything else is an update path (0). MySQL reports 2 on
		// duplicate-key update.
		affected := int64(0)
		if raw.RowsAffected == 1 {
			affected = 1
		}
		return &domain.Result{Kind: intent, RowsAffected: affected}, nil

	case domain.IntentDelete:
		return &domain.Result{Kind: intent}, nil

	case domain.IntentShowTables:
		return normalizeShowTables(raw)

	case domain.IntentDescribe:
		return normalizeDescribe(raw)

	case domain.IntentSelect:
		return normalizeSelect(raw, opts)

	case domain.IntentRaw:
		return normalizeRaw(raw, opts)

	default:
		return nil, domain.NewErrMalformedResult(intent, "unknown intent")
	}
}

func normalizeShowTables(raw *domain.RawResult) (*domain.Result, error) {
	tables := make([]string, 0, len(raw.Rows))
	for _, row := range raw.Rows {
		val, ok := firstValue(row, "table_name", "name", "Tables")
		if !ok {
			return nil, domain.NewErrMalformedResult(domain.IntentShowTables, "row carries no table name column")
		}
		name, ok := val.(string)
		if !ok {
			return nil, domain.NewErrMalformedResult(domain.IntentShowTables, fmt.Sprintf("table name is %T, not string", val))
		}
		tables = append(tables, name)
	}
	return &domain.Result{Kind: domain.IntentShowTables, Tables: tables}, nil
}

func normalizeDescribe(raw *domain.RawResult) (*domain.Result, error) {
	desc := make(map[string]domain.ColumnDescription, len(raw.Rows))
	for _, row := range raw.Rows {
		nameVal, ok := firstValue(row, "Field", "field", "name", "column_name")
		if !ok {
			return nil, domain.NewErrMalformedResult(domain.IntentDescribe, "row carries no column name")
		}
		name, ok := nameVal.(string)
		if !ok {
			return nil, domain.NewErrMalformedResult(domain.IntentDescribe, fmt.Sprintf("column name is %T, not string", nameVal))
		}

		col := domain.ColumnDescription{AllowNull: true}

		if t, ok := firstValue(row, "Type", "type", "column_type", "data_type"); ok {
			col.Type, _ = t.(string)
		}

		if n, ok := firstValue(row, "Null", "is_nullable"); ok {
			s, _ := n.(string)
			col.AllowNull = strings.EqualFold(s, "YES")
		} else if nn, ok := firstValue(row, "notnull"); ok {
			col.AllowNull = !truthy(nn)
		}

		if d, ok := firstValue(row, "Default", "dflt_value", "column_default"); ok {
			col.DefaultValue = d
		}

		if k, ok := firstValue(row, "Key", "column_key"); ok {
			s, _ := k.(string)
			col.PrimaryKey = strings.EqualFold(s, "PRI")
		} else if pk, ok := firstValue(row, "pk"); ok {
			col.PrimaryKey = truthy(pk)
		}

		if extra, ok := firstValue(row, "Extra", "extra"); ok {
			s, _ := extra.(string)
			col.AutoIncrement = strings.Contains(strings.ToLower(s), "auto_increment")
		}

		if c, ok := firstValue(row, "Comment", "column_comment"); ok {
			col.Comment, _ = c.(string)
		}

		desc[name] = col
	}
	return &domain.Result{Kind: domain.IntentDescribe, Description: desc}, nil
}

func normalizeSelect(raw *domain.RawResult, opts *domain.ExecOptions) (*domain.Result, error) {
	rows := raw.Rows
	if opts.Nest {
		rows = expandRows(rows)
	}

	res := &domain.Result{Kind: domain.IntentSelect}

	if opts.Model != nil {
		hydrationRows := rows
		if opts.MapToModel {
			hydrationRows = renameColumns(rows, opts.FieldMap)
		}

		instances, err := model.Hydrate(context.Background(), hydrationRows, opts.Model)
		if err != nil {
			return nil, domain.NewErrMalformedResult(domain.IntentSelect, err.Error())
		}
		res.Instances = instances

		if !opts.MapToModel {
			rows = renameColumns(rows, opts.FieldMap)
		}
		res.Rows = rows

		if opts.Plain {
			if len(instances) > 0 {
				res.Value = instances[0]
			}
			res.Instances = nil
			res.Rows = nil
		}
		return res, nil
	}

	rows = renameColumns(rows, opts.FieldMap)
	if opts.Plain {
		if len(rows) > 0 {
			res.Value = rows[0]
		}
		return res, nil
	}
	res.Rows = rows
	return res, nil
}

func normalizeRaw(raw *domain.RawResult, opts *domain.ExecOptions) (*domain.Result, error) {
	res := &domain.Result{
		Kind:         domain.IntentRaw,
		InsertID:     raw.InsertID,
		RowsAffected: raw.RowsAffected,
	}

	rows := renameColumns(raw.Rows, opts.FieldMap)
	if opts.Plain {
		if len(rows) > 0 {
			res.Value = rows[0]
		}
		return res, nil
	}

	res.Rows = rows
	res.Metadata = raw
	return res, nil
}

// firstValue returns the first present key among candidates.
func firstValue(row domain.Row, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if val, ok := row[key]; ok {
			return val, true
		}
	}
	return nil, false
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case int64:
		return val != 0
	case int:
		return val != 0
	case float64:
		return val != 0
	case string:
		return val != "" && val != "0"
	case bool:
		return val
	default:
		return false
	}
}
