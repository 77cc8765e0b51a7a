// Package repository contains the MySQL data access layer.  Each
// entity has its own repository struct over a shared *sql.DB.  Storage
// failures are translated into the sentinel errors of the model
// package so that services and handlers never inspect driver errors.
package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/avdeyev/cinema-booking/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key
// violation.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a unique constraint violation,
// optionally restricted to the named index.
func isDuplicateKey(err error, key string) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return false
	}
	return key == "" || strings.Contains(me.Message, key)
}

// asStorageErr wraps transient connection-level failures in
// model.ErrStorageUnavailable and leaves everything else untouched.
// Callers treat the wrapped error as retryable at their own discretion.
func asStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}
	return err
}
