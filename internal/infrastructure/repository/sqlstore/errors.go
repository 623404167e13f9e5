package sqlstore

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKeyErr reports whether err is a unique constraint violation.
// TranslateError covers the drivers we ship; the message checks catch
// errors that reach us untranslated.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()

	// PostgreSQL (SQLSTATE 23505)
	if strings.Contains(msg, "duplicate key value violates unique constraint") {
		return true
	}

	// MySQL (error 1062)
	if strings.Contains(msg, "Error 1062") {
		return true
	}

	// SQLite (extended code 2067)
	return strings.Contains(msg, "UNIQUE constraint failed")
}
