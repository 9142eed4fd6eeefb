package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/joshua-takyi/vena/internal/services"
)

// vendorClaims returns the authenticated vendor set by AuthMiddleware and
// writes the error response itself when there is none.
func vendorClaims(c *gin.Context) (*helpers.EnhancedClaims, uuid.UUID, bool) {
	userClaims, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, helpers.ErrorResponse("unauthorized"))
		return nil, uuid.Nil, false
	}
	claims, ok := userClaims.(*helpers.EnhancedClaims)
	if !ok {
		c.JSON(http.StatusInternalServerError, helpers.ErrorResponse("invalid user claims"))
		return nil, uuid.Nil, false
	}
	vendorID, err := claims.VendorID()
	if err != nil {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid user ID in token"))
		return nil, uuid.Nil, false
	}
	return claims, vendorID, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid "+name+" format"))
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid page parameter"))
		return 0, 0, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid limit parameter"))
		return 0, 0, false
	}
	return page, limit, true
}

// paginated writes one page of items with the total count.
func paginated[T any](c *gin.Context, items []T) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, helpers.PaginatedResponse(helpers.Paginate(items, page, limit), page, limit, len(items)))
}

// respondError maps service errors onto statuses. Validation problems are
// echoed back; anything else is logged via c.Error and hidden behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		res := helpers.ErrorResponse(verr.Message)
		res.Data = verr.Fields
		c.JSON(http.StatusBadRequest, res)
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
	case errors.Is(err, models.ErrNotFound), errors.Is(err, services.ErrPackageNotFound):
		c.JSON(http.StatusNotFound, helpers.ErrorResponse("not found"))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(fallback))
	}
}

func bindFields(c *gin.Context) (map[string]interface{}, bool) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload"))
		return nil, false
	}
	return fields, true
}
