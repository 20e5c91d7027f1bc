package catalog

import (
	"fmt"
	"strings"

	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
)

func (s *Service) validate(p Product) error {
	if strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("%w: product code is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Barcode) == "" {
		return fmt.Errorf("%w: product barcode is required", httpx.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", httpx.ErrValidation)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: product price must not be negative", httpx.ErrValidation)
	}
	return nil
}
