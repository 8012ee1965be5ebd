package sql

import (
	"fmt"
	"strings"
)

type PostgresQueryProvider struct {
	Table   string
	Columns []string
}

func (p PostgresQueryProvider) InsertSql() string {
	q := `INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	return fmt.Sprintf(q, p.Table, strings.Join(p.Columns, ", "))
}

func (p PostgresQueryProvider) ClaimPendingSql(limit int) string {
	q := `SELECT %s FROM %s WHERE status = 'PENDING' ORDER BY created_at ASC LIMIT %d FOR UPDATE SKIP LOCKED`

	return fmt.Sprintf(q, strings.Join(p.Columns, ", "), p.Table, limit)
}

func (p PostgresQueryProvider) ClaimRetryableFailedSql(limit int) string {
	q := `SELECT %s FROM %s WHERE status = 'FAILED' AND delivery_attempts < $1 AND processed_at < $2 ORDER BY created_at ASC LIMIT %d FOR UPDATE SKIP LOCKED`

	return fmt.Sprintf(q, strings.Join(p.Columns, ", "), p.Table, limit)
}

func (p PostgresQueryProvider) MarkPublishedSql() string {
	return fmt.Sprintf(`UPDATE %s SET status = 'PUBLISHED', processed_at = NOW(), last_error = NULL WHERE id = $1`, p.Table)
}

func (p PostgresQueryProvider) MarkFailedSql() string {
	return fmt.Sprintf(`UPDATE %s SET status = 'FAILED', processed_at = NOW(), delivery_attempts = delivery_attempts + 1, last_error = $1 WHERE id = $2`, p.Table)
}

func (p PostgresQueryProvider) ResetToPendingSql(idCount int) string {
	q := `UPDATE %s SET status = 'PENDING', processed_at = NULL, last_error = NULL WHERE id IN (%s)`

	var placeholders []string
	for i := 1; i <= idCount; i++ {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i))
	}

	return fmt.Sprintf(q, p.Table, strings.Join(placeholders, ", "))
}

func (p PostgresQueryProvider) DeletePublishedBeforeSql() string {
	return fmt.Sprintf(`DELETE FROM %s WHERE status = 'PUBLISHED' AND created_at < $1`, p.Table)
}

func (p PostgresQueryProvider) CountByStatusSql() string {
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE status = $1`, p.Table)
}
