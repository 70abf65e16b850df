package stock

import pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"

var (
	// ErrMaterialNotFound is returned when no material has the requested code.
	ErrMaterialNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "Material not found")
	// ErrInsufficientStock is returned when a checkout asks for more than is available.
	ErrInsufficientStock = pkgerrors.New(pkgerrors.CodeInsufficientStock, "Insufficient stock available")
)
