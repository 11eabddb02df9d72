package ledger

import "errors"

// ErrNotFound means no Summary row exists for the requested date. The
// Summary sheet is the existence marker; rows in the other sheets alone do
// not make a date exist.
var ErrNotFound = errors.New("no record for the specified date")
