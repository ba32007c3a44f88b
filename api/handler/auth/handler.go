package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/anoixa/postboard/api/common"
	"github.com/anoixa/postboard/api/middleware"
	svcAuth "github.com/anoixa/postboard/internal/auth"
	"github.com/gin-gonic/gin"
)

// Handler 注册与登录处理器
type Handler struct {
	svc *svcAuth.Service
}

// NewHandler 创建认证处理器
func NewHandler(svc *svcAuth.Service) *Handler {
	return &Handler{svc: svc}
}

// wrongCredentialsMessage 登录失败时返回给客户端的提示
const wrongCredentialsMessage = "Wrong credentials!"

type loginResponse struct {
	User              interface{} `json:"user"`
	Token             string      `json:"token"`
	AccessTokenExpiry int64       `json:"access_token_expiry"`
}

// Register 注册新用户
// @Summary      Register
// @Description  Creates a user with the Basic role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      svcAuth.RegisterInput  true  "New user"
// @Success      201  {object}  common.Response{data=models.User}
// @Failure      400  {object}  common.Response  "Validation failed"
// @Failure      409  {object}  common.Response  "Email already registered"
// @Router       /register [post]
func (h *Handler) Register(c *gin.Context) {
	var input svcAuth.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.RespondBindError(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, svcAuth.ErrEmailTaken) {
			common.RespondError(c, http.StatusConflict, "Email is already registered")
			return
		}
		log.Printf("[Auth] Register failed: %v", err)
		common.RespondError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	common.RespondCreated(c, user)
}

// Login 登录并返回 {user, token}
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      svcAuth.Credentials  true  "Credentials"
// @Success      200  {object}  common.Response{data=loginResponse}
// @Failure      400  {object}  common.Response  "Wrong credentials!"
// @Router       /login [post]
func (h *Handler) Login(c *gin.Context) {
	var creds svcAuth.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		common.RespondBindError(c, err)
		return
	}

	result, err := h.svc.Authenticate(c.Request.Context(), creds)
	if err != nil {
		if errors.Is(err, svcAuth.ErrBadCredentials) {
			common.RespondError(c, http.StatusBadRequest, wrongCredentialsMessage)
			return
		}
		log.Printf("[Auth] Login failed: %v", err)
		common.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	common.RespondSuccessMessage(c, "Login successful", loginResponse{
		User:              result.User,
		Token:             result.Token,
		AccessTokenExpiry: result.ExpiresAt.Unix(),
	})
}

// Me 返回当前登录用户
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.Response{data=models.User}
// @Failure      401  {object}  common.Response  "Unauthorized"
// @Security     BearerAuth
// @Router       /me [get]
func (h *Handler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		common.RespondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	common.RespondSuccess(c, user)
}
