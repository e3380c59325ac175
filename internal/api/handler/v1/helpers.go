package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/predictifylabs/predictify-api/internal/api/handler/v1/response"
	"github.com/predictifylabs/predictify-api/internal/api/middleware"
	"github.com/predictifylabs/predictify-api/internal/domain"
	"github.com/predictifylabs/predictify-api/internal/service"
)

var errNoUserInContext = errors.New("no authenticated user in context")

func getUserIDFromContext(ctx *gin.Context) (uint, *response.Err) {
	value, ok := ctx.Get(middleware.ContextUserID)
	if !ok {
		return 0, response.ErrUnauthorized(errNoUserInContext)
	}
	userID, ok := value.(uint)
	if !ok || userID == 0 {
		return 0, response.ErrUnauthorized(errNoUserInContext)
	}

	return userID, nil
}

func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		return domain.User{}, respErr
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(fmt.Errorf("user %v no longer exists", userID))
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("uSvc.GetUser -> %w", err))
	}

	return user, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %v", name))
	}

	return uint(id), nil
}
