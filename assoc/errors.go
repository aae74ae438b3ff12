package assoc

import "errors"

var (
	ErrAliasCycle      = errors.New("alias chain contains a cycle")
	ErrDuplicateBundle = errors.New("bundle is defined more than once")
)
