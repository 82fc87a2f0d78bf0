package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fruito-api/internal/service"
	"fruito-api/internal/transport/http/ez"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Priority() int { return 10 }

// email 与 user.email 列宽一致
type signupIn struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required,max=255,email"`
	Password string `json:"password" binding:"required"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,max=255,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[signupIn, userView]{
		Method: http.MethodPost,
		Path:   "/auth/user/signup",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *signupIn) (userView, error) {
			u, err := h.svc.Signup(c.Request.Context(), service.SignupInput{
				Name:     strings.TrimSpace(in.Name),
				Email:    strings.TrimSpace(in.Email),
				Password: in.Password,
			})
			if err != nil {
				return userView{}, fail(err)
			}
			return toUserView(u), nil
		},
	})

	ez.RegisterAction(e, ez.Action[loginIn, sessionView]{
		Method: http.MethodPost,
		Path:   "/auth/user/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (sessionView, error) {
			s, err := h.svc.Login(c.Request.Context(), strings.TrimSpace(in.Email), in.Password)
			if err != nil {
				return sessionView{}, fail(err)
			}
			return toSessionView(s), nil
		},
	})

	ez.RegisterAction(e, ez.Action[loginIn, sessionView]{
		Method: http.MethodPost,
		Path:   "/auth/admin/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (sessionView, error) {
			s, err := h.svc.AdminLogin(c.Request.Context(), strings.TrimSpace(in.Email), in.Password)
			if err != nil {
				return sessionView{}, fail(err)
			}
			return toSessionView(s), nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, userView]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (userView, error) {
			u, err := h.svc.Me(c.Request.Context(), c.GetString(ez.KeyUserID))
			if err != nil {
				return userView{}, fail(err)
			}
			return toUserView(u), nil
		},
	})
}
