package attendance

import "errors"

var ErrInvalidRange = errors.New("date range end precedes start")
