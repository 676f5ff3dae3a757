// Package dberr классифицирует ошибки драйвера БД
// Транзиентные сбои (обрыв соединения, исчерпание ресурсов, остановка
// сервера) помечаются маркером ErrUnavailable, чтобы верхние слои могли
// отдать 503 вместо 500
package dberr

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"
)

// ErrUnavailable возвращается при временной недоступности БД
var ErrUnavailable = errors.New("storage: database unavailable")

// Классы SQLSTATE Postgres, считающиеся транзиентными
const (
	pgClassConnectionException   = "08"  // connection_exception
	pgClassInsufficientResources = "53"  // too_many_connections и т.п.
	pgPrefixOperatorIntervention = "57P" // admin_shutdown, crash_shutdown, cannot_connect_now
)

// Wrap оборачивает ошибку запроса: транзиентные получают маркер
// ErrUnavailable, остальные - переданный sentinel репозитория
func Wrap(sentinel error, op string, err error) error {
	if IsUnavailable(err) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", sentinel, op, err)
}

// IsUnavailable возвращает true для ошибок соединения с БД
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return strings.HasPrefix(code, pgClassConnectionException) ||
			strings.HasPrefix(code, pgClassInsufficientResources) ||
			strings.HasPrefix(code, pgPrefixOperatorIntervention)
	}

	return false
}
