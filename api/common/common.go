package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response 统一响应结构
type Response struct {
	Status string      `json:"status"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
}

func Respond(c *gin.Context, httpStatus int, status string, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Status: status,
		Msg:    message,
		Data:   data,
	})
}

// RespondSuccess sends a success response with data.
func RespondSuccess(c *gin.Context, data interface{}) {
	Respond(c, http.StatusOK, StatusSuccess, "", data)
}

// RespondSuccessMessage sends a success response with message and data.
func RespondSuccessMessage(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusOK, StatusSuccess, message, data)
}

// RespondCreated 201 响应
func RespondCreated(c *gin.Context, data interface{}) {
	Respond(c, http.StatusCreated, StatusSuccess, "", data)
}

// RespondError sends an error response with message.
func RespondError(c *gin.Context, httpStatus int, message string) {
	Respond(c, httpStatus, StatusError, message, nil)
}

// RespondErrorAbort 返回错误并终止后续处理链
func RespondErrorAbort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Status: StatusError,
		Msg:    message,
	})
}

// RespondBindError 将绑定/校验错误转为 400 响应
func RespondBindError(c *gin.Context, err error) {
	RespondError(c, http.StatusBadRequest, FormatBindError(err))
}

// FormatBindError 把 validator 的字段错误整理成可读文本
func FormatBindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body: " + err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return strings.Join(msgs, "; ")
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}
