package interfaces

import "errors"

// ErrNotFound is the shared sentinel for a missing record. Every
// repository backend wraps it so callers can branch on errors.Is
// without knowing the backend.
var ErrNotFound = errors.New("record not found")
