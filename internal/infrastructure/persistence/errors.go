package persistence

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/lib/pq"

	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

// Коды ошибок PostgreSQL, которые различает приложение.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgConnectionClass     = "08"
	// 57P01..57P03: сервер останавливается или ещё не готов принимать соединения
	pgShutdownPrefix = "57P"
)

// classify переводит ошибку драйвера в AppError по причине: недоступность хранилища,
// нарушение ограничений или прочий сбой базы.
func classify(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if isUnavailable(err) {
		return apperror.Wrap(err, apperror.ErrCodeStoreUnavailable, apperror.ErrStoreUnavailable.Message)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return apperror.Wrap(err, apperror.ErrCodeConflict, "такая запись уже существует")
		case pgForeignKeyViolation:
			return apperror.Wrap(err, apperror.ErrCodeConflict, "связанная запись не найдена")
		case pgCheckViolation:
			return apperror.Wrap(err, apperror.ErrCodeValidation, "данные не прошли проверку базы данных")
		}
	}

	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, message)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		return strings.HasPrefix(code, pgConnectionClass) || strings.HasPrefix(code, pgShutdownPrefix)
	}

	var opErr *net.OpError
	return errors.As(err, &opErr)
}
