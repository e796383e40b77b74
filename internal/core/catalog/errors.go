package catalog

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidCatalog = errors.New("invalid catalog data")
var ErrInvalidProduct = errors.New("invalid product")

var validate = validator.New(validator.WithRequiredStructEnabled())
