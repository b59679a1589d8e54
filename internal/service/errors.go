package service

import (
	"errors"
	"fmt"

	"github.com/carson-networks/ledger-sync/internal/storage/sqlconfig"
)

var ErrEntryNotFound = sqlconfig.ErrEntryNotFound

// RemoteQueryError wraps any failure reported by the remote data service.
// It is never retried by this package.
type RemoteQueryError struct {
	Op  string
	Err error
}

func (e *RemoteQueryError) Error() string {
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *RemoteQueryError) Unwrap() error {
	return e.Err
}

func remoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RemoteQueryError{Op: op, Err: err}
}

// IsRemoteQueryError reports whether err came from the remote data service.
func IsRemoteQueryError(err error) bool {
	var remote *RemoteQueryError
	return errors.As(err, &remote)
}
