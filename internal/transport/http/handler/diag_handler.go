package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fruito-api/internal/service"
	"fruito-api/internal/transport/http/ez"
)

type DiagHandler struct {
	diag *service.DiagService
}

func NewDiagHandler(diag *service.DiagService) *DiagHandler { return &DiagHandler{diag: diag} }

func (h *DiagHandler) Priority() int { return 0 }

type rootOut struct {
	Message string `json:"message"`
}

func (h *DiagHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[struct{}, rootOut]{
		Method: http.MethodGet,
		Path:   "/",
		Binder: ez.BindNone,
		Handler: func(*gin.Context, *struct{}) (rootOut, error) {
			return rootOut{Message: "Fruito API Running"}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, service.DiagReport]{
		Method: http.MethodGet,
		Path:   "/test",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (service.DiagReport, error) {
			return h.diag.Report(c.Request.Context()), nil
		},
	})
}
