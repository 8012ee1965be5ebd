package sql

import (
	"fmt"
	"strings"
)

type MysqlQueryProvider struct {
	Table   string
	Columns []string
}

func (m MysqlQueryProvider) InsertSql() string {
	q := "INSERT INTO `%s` (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	return fmt.Sprintf(q, m.Table, strings.Join(m.escapeColumns(), ", "))
}

func (m MysqlQueryProvider) ClaimPendingSql(limit int) string {
	q := "SELECT %s FROM `%s` WHERE `status` = 'PENDING' ORDER BY `created_at` ASC LIMIT %d FOR UPDATE SKIP LOCKED"

	return fmt.Sprintf(q, strings.Join(m.escapeColumns(), ", "), m.Table, limit)
}

func (m MysqlQueryProvider) ClaimRetryableFailedSql(limit int) string {
	q := "SELECT %s FROM `%s` WHERE `status` = 'FAILED' AND `delivery_attempts` < ? AND `processed_at` < ? ORDER BY `created_at` ASC LIMIT %d FOR UPDATE SKIP LOCKED"

	return fmt.Sprintf(q, strings.Join(m.escapeColumns(), ", "), m.Table, limit)
}

func (m MysqlQueryProvider) MarkPublishedSql() string {
	return fmt.Sprintf("UPDATE `%s` SET `status` = 'PUBLISHED', `processed_at` = NOW(), `last_error` = NULL WHERE `id` = ?", m.Table)
}

func (m MysqlQueryProvider) MarkFailedSql() string {
	return fmt.Sprintf("UPDATE `%s` SET `status` = 'FAILED', `processed_at` = NOW(), `delivery_attempts` = `delivery_attempts` + 1, `last_error` = ? WHERE `id` = ?", m.Table)
}

func (m MysqlQueryProvider) ResetToPendingSql(idCount int) string {
	q := "UPDATE `%s` SET `status` = 'PENDING', `processed_at` = NULL, `last_error` = NULL WHERE `id` IN (%s)"

	return fmt.Sprintf(q, m.Table, strings.Trim(strings.Repeat("?, ", idCount), ", "))
}

func (m MysqlQueryProvider) DeletePublishedBeforeSql() string {
	return fmt.Sprintf("DELETE FROM `%s` WHERE `status` = 'PUBLISHED' AND `created_at` < ?", m.Table)
}

func (m MysqlQueryProvider) CountByStatusSql() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM `%s` WHERE `status` = ?", m.Table)
}

func (m MysqlQueryProvider) escapeColumns() []string {
	var escaped []string
	for _, c := range m.Columns {
		escaped = append(escaped, "`"+c+"`")
	}

	return escaped
}
