package register

import (
	"fmt"

	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
)

var (
	// ErrDraftNotFound indicates the draft id is unknown or expired.
	ErrDraftNotFound = fmt.Errorf("draft %w", httpx.ErrNotFound)
	// ErrLineNotFound indicates the line item id is not on the draft.
	ErrLineNotFound = fmt.Errorf("line item %w", httpx.ErrNotFound)
	// ErrEmptyDraft blocks submission of a draft without items.
	ErrEmptyDraft = fmt.Errorf("%w: cannot submit an empty draft", httpx.ErrValidation)
	// ErrBarcodeRequired rejects a scan whose code is empty after trimming.
	ErrBarcodeRequired = fmt.Errorf("%w: barcode is required", httpx.ErrValidation)
	// ErrSubmitInProgress indicates an overlapping submission for the same draft.
	ErrSubmitInProgress = fmt.Errorf("%w: submission already in progress", httpx.ErrConflict)
)
