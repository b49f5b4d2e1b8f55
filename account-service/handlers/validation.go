package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	utils "madajob-backend/shared/utils/auth"
	"madajob-backend/shared/utils/response"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules and rejects unknown JSON fields.
func RegisterValidators() {
	registerOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
				return utils.IsUsername(fl.Field().String())
			})
			// max counts runes, bcrypt counts bytes
			_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
				limit, err := strconv.Atoi(fl.Param())
				return err == nil && len(fl.Field().String()) <= limit
			})
		}
	})
}

// bindError answers a failed bind with 422 and a readable detail.
func bindError(c *gin.Context, err error) {
	response.Detail(c, http.StatusUnprocessableEntity, describeBindError(err))
}

func describeBindError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "maxbytes":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s bytes", field, fe.Param()))
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "username":
			msgs = append(msgs, field+" may only contain lowercase letters and digits")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// parseID reads the :id path parameter, answering 422 when it is not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Detail(c, http.StatusUnprocessableEntity, "Invalid user id")
		return 0, false
	}
	return uint(id), true
}
