package page

import (
	"net/http"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
)

var (
	ErrNegativeFrom    = apperror.New(http.StatusBadRequest, "from must be non-negative")
	ErrNonPositiveSize = apperror.New(http.StatusBadRequest, "size must be positive")
)

// Page carries from/size listing parameters.
//
// Offset follows the page-bucket convention: the effective offset is the
// start of the page containing `From`, i.e. (From/Size)*Size. Callers that
// pass a `From` which is not a multiple of `Size` get page boundaries, not
// exact offsets. That behavior is relied upon and must not be changed.
type Page struct {
	From int
	Size int
}

// Validate checks the parameter ranges.
func (p Page) Validate() error {
	if p.From < 0 {
		return ErrNegativeFrom
	}
	if p.Size <= 0 {
		return ErrNonPositiveSize
	}
	return nil
}

// Offset returns the store offset for this page.
func (p Page) Offset() int {
	return (p.From / p.Size) * p.Size
}

// Limit returns the store limit for this page.
func (p Page) Limit() int {
	return p.Size
}
