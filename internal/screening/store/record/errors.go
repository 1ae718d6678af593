package record

import "errors"

var errNilRecord = errors.New("record is required")
