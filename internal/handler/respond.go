package handler

import (
	"net/http"

	"rentledger/internal/apperror"
	"rentledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps a service failure to its HTTP status and envelope.
func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	c.JSON(status, response.Error(status, string(apperror.KindOf(err)), err.Error()))
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest,
		string(apperror.KindValidation), "invalid request payload: "+err.Error()))
}

// parseID extracts the :id path parameter. On failure it writes the 400
// response itself and returns ok=false.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest,
			string(apperror.KindValidation), "invalid id parameter"))
		return uuid.Nil, false
	}
	return id, true
}
