package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/internal/services"
	"github.com/teamfit/backend/pkg/response"
)

// handleServiceError maps the service layer's sentinel errors onto the
// response envelope. Anything unrecognized is a 500.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrAlreadyAccepted):
		response.Conflict(c, err.Error())
	case errors.Is(err, services.ErrExpiredInvitation):
		response.Gone(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(c, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}
