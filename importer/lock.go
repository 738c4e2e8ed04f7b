package importer

import (
	"errors"

	"gorm.io/gorm"
)

// ErrRunInProgress means another import run currently holds the lock.
var ErrRunInProgress = errors.New("importer: another import run is in progress")

// runLockID is an arbitrary but stable advisory-lock key for import runs.
const runLockID = 7230159

// AcquireRunLock serializes concurrent import runs. Two runs racing the
// same export could both pass the duplicate check before either writes, so
// on postgres a session-level advisory lock guards the whole run. Other
// dialects get a no-op release; there the single-operator constraint is
// documented rather than enforced.
func AcquireRunLock(db *gorm.DB) (release func(), err error) {
	if db.Dialector.Name() != "postgres" {
		return func() {}, nil
	}

	var ok bool
	if err := db.Raw("SELECT pg_try_advisory_lock(?)", runLockID).Scan(&ok).Error; err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRunInProgress
	}

	return func() {
		db.Exec("SELECT pg_advisory_unlock(?)", runLockID)
	}, nil
}
