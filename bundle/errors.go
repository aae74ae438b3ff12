package bundle

import "errors"

var (
	ErrCallbackMissing = errors.New("callback parameter must be supplied and non-empty")
	ErrCallbackInvalid = errors.New("callback parameter contains disallowed characters")
)
