package domain

import (
	"errors"
	"fmt"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageRouteNotFound        = "route not found"

	ErrValidation         = errors.New("validation failed")
	ErrInvalidImageFormat = fmt.Errorf("%w: invalid image format", ErrValidation)
	ErrUploadFailed       = errors.New("image upload failed")
)
