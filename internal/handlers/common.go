// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/services"
	"github.com/openmerce/storefront/internal/utils"
)

// resolveStore picks the store for a request: the ?store= query parameter,
// the store code baked into the JWT, or the default store.
func resolveStore(c *gin.Context, stores *services.StoreService) (*models.MerchantStore, bool) {
	code := c.Query("store")
	if code == "" {
		code = utils.GetStoreCodeFromContext(c)
	}
	if code == "" {
		code = models.DefaultStoreCode
	}

	store, err := stores.GetStoreByCode(code)
	if err != nil {
		respondServiceError(c, err, "store")
		return nil, false
	}
	return store, true
}

// currentCustomerID pulls the authenticated customer out of the context.
func currentCustomerID(c *gin.Context) (uuid.UUID, bool) {
	idStr, exists := utils.GetCustomerIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return id, true
}

// parseIDParam parses a uuid path parameter, replying 400 on garbage.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service sentinel errors onto HTTP responses.
// resource names the i18n prefix used for not-found messages.
func respondServiceError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		utils.UnauthorizedResponse(c, err.Error())
	case errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrUnavailable),
		errors.Is(err, services.ErrInvalidState):
		utils.BadRequestResponse(c, err.Error(), nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}
