package snapshots

import "errors"

var errEmptyDate = errors.New("date required")
