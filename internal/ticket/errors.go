package ticket

import "errors"

var (
	// ErrIssueNotFound indicates the requested key is not in the universe.
	ErrIssueNotFound = errors.New("issue not found")
	// ErrDuplicateKey indicates two tickets share the same key.
	ErrDuplicateKey = errors.New("duplicate issue key")
)
