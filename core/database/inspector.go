package database

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// ColumnInfo matches the output of SHOW COLUMNS.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

// Mismatch describes a column a model expects but the live table lacks.
type Mismatch struct {
	Table  string
	Column string
}

func (m Mismatch) String() string {
	if m.Column == "" {
		return fmt.Sprintf("table %s is missing", m.Table)
	}
	return fmt.Sprintf("column %s.%s is missing", m.Table, m.Column)
}

var inspectCache sync.Map

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	if db.Dialector.Name() == DriverSQLite {
		type sqliteColumn struct {
			Cid       int
			Name      string
			Type      string
			Notnull   int
			DfltValue *string
			Pk        int
		}
		var rows []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range rows {
			info := ColumnInfo{
				Field:   strings.ToLower(col.Name),
				Type:    strings.ToLower(col.Type),
				Default: col.DfltValue,
				Null:    "YES",
			}
			if col.Notnull == 1 {
				info.Null = "NO"
			}
			if col.Pk > 0 {
				info.Key = "PRI"
			}
			columns = append(columns, info)
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// VerifyModels compares the tables GORM derives from models, including
// many2many join tables, with the live schema.
func VerifyModels(db *gorm.DB, models ...any) ([]Mismatch, error) {
	expected := make(map[string][]string)
	for _, model := range models {
		s, err := schema.Parse(model, &inspectCache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}
		expected[s.Table] = append(expected[s.Table], s.DBNames...)
		for _, rel := range s.Relationships.Relations {
			if rel.JoinTable == nil {
				continue
			}
			expected[rel.JoinTable.Table] = append(expected[rel.JoinTable.Table], rel.JoinTable.DBNames...)
		}
	}

	var mismatches []Mismatch
	for _, table := range slices.Sorted(maps.Keys(expected)) {
		columns, err := GetTableColumns(db, table)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			mismatches = append(mismatches, Mismatch{Table: table})
			continue
		}
		names := expected[table]
		slices.Sort(names)
		names = slices.Compact(names)
		live := make(map[string]bool, len(columns))
		for _, col := range columns {
			live[col.Field] = true
		}
		for _, name := range names {
			if !live[strings.ToLower(name)] {
				mismatches = append(mismatches, Mismatch{Table: table, Column: name})
			}
		}
	}
	return mismatches, nil
}
