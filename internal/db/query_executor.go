package db

import (
	"gorm.io/gorm"

	"wellpath-backend-V2.0/internal/db/query"
)

// QueryExecutor runs the aggregate queries the dashboard endpoints need on
// top of the shared gorm handle.
type QueryExecutor struct {
	DB *gorm.DB
}

// NewQueryExecutor creates a new instance of QueryExecutor.
func NewQueryExecutor(conn *gorm.DB) *QueryExecutor {
	return &QueryExecutor{DB: conn}
}

// Count returns the number of rows in table matching the predicate.
func (qe *QueryExecutor) Count(table string, fp *query.FilterPredicate) (int64, error) {
	var count int64
	tx := qe.DB.Table(table)
	if fp != nil && !fp.Empty() {
		clause, args := fp.Build()
		tx = tx.Where(clause, args...)
	}
	err := tx.Count(&count).Error
	return count, err
}

// Exists checks if a record matching the predicate exists.
func (qe *QueryExecutor) Exists(table string, fp *query.FilterPredicate) (bool, error) {
	count, err := qe.Count(table, fp)
	return count > 0, err
}

// Select executes a raw select query and returns the results as generic rows.
func (qe *QueryExecutor) Select(rawQuery string, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := qe.DB.Raw(rawQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	cols, _ := rows.Columns()
	for rows.Next() {
		rowData := make([]interface{}, len(cols))
		scanArgs := make([]interface{}, len(cols))
		for i := range rowData {
			scanArgs[i] = &rowData[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, err
		}
		record := make(map[string]interface{})
		for i, col := range cols {
			record[col] = rowData[i]
		}
		results = append(results, record)
	}
	return results, rows.Err()
}
