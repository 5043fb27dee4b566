package blocks

import (
	"errors"
	"fmt"

	"github.com/nutriplan/backend/internal/storage"
)

var ErrPlanNotFound = errors.New("plan not found")

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConflictError carries the existing block whose interval intersects the
// requested one.
type ConflictError struct {
	Block storage.Block
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time conflict with block %s (%s-%s)", e.Block.Type, e.Block.TimeStart, e.Block.TimeEnd)
}
