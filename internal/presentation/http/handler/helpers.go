package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/garage-pos-api/internal/application/validation"
	"github.com/sangkips/garage-pos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/garage-pos-api/pkg/apperror"
	"github.com/sangkips/garage-pos-api/pkg/pagination"
)

// UserIDKey is the context key the auth middleware stores the caller id under
const UserIDKey = "user_id"

// GetUserID extracts the caller id from the Gin context
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// requireUser writes an unauthenticated response when the request has no caller
func requireUser(c *gin.Context) (string, bool) {
	userID := GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "User not authenticated")
		return "", false
	}
	return userID, true
}

// bindJSON decodes the request body. Malformed JSON is an invalid argument.
// Fields of the wrong JSON type are reported together with every rule the
// rest of the payload breaks.
func bindJSON(c *gin.Context, dst any) bool {
	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, apperror.NewBadRequestError("invalid request body: "+err.Error()))
		return false
	}

	typeErrs, err := validation.DecodeJSON(body, dst)
	if err != nil {
		response.Error(c, apperror.NewBadRequestError("invalid request body: "+err.Error()))
		return false
	}
	if len(typeErrs) > 0 {
		response.Error(c, apperror.NewInvalidArgument(validation.Merge(typeErrs, validation.Check(dst).Errors())))
		return false
	}
	return true
}

// bindJSONWithID binds the body of a request on /:id. The path id is set
// before the body is checked and wins over an id in the body.
func bindJSONWithID(c *gin.Context, dst any, id *string) bool {
	*id = c.Param("id")
	if !bindJSON(c, dst) {
		return false
	}
	*id = c.Param("id")
	return true
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	params := &pagination.PaginationParams{Page: page, PerPage: perPage}
	params.Validate()
	return params
}

func cursorParams(c *gin.Context) *pagination.CursorParams {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := &pagination.CursorParams{Cursor: c.Query("cursor"), Limit: limit}
	params.Validate()
	return params
}

func wantsCursor(c *gin.Context) bool {
	return c.Query("cursor") != "" || c.Query("limit") != ""
}

// dateQuery parses a YYYY-MM-DD query parameter in local time
func dateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return nil, apperror.NewInvalidArgument([]apperror.FieldError{{Field: name, Message: "must be a date in YYYY-MM-DD format"}})
	}
	return &t, nil
}
