package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fruito-api/internal/domain"
	"fruito-api/internal/service"
	"fruito-api/internal/transport/http/ez"
)

type ProductHandler struct {
	catalog *service.CatalogService
	auth    *service.AuthService
}

func NewProductHandler(catalog *service.CatalogService, auth *service.AuthService) *ProductHandler {
	return &ProductHandler{catalog: catalog, auth: auth}
}

func (h *ProductHandler) Priority() int { return 20 }

type productIn struct {
	Name        string   `json:"name"        binding:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       binding:"required,gte=0"`
	Image       *string  `json:"image"`
	Stock       int      `json:"stock"       binding:"gte=0"`
}

func (p productIn) toInput() service.ProductInput {
	return service.ProductInput{
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Price:       *p.Price,
		Image:       p.Image,
		Stock:       p.Stock,
	}
}

type adminProductIn struct {
	Product     productIn `json:"product"     binding:"required"`
	Credentials *loginIn  `json:"credentials"`
}

type idURI struct {
	ID string `uri:"id" binding:"required"`
}

func (h *ProductHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	// 凭证每次重新校验；不带凭证时接受仍是管理员的 Bearer 令牌
	ez.RegisterAction(e, ez.Action[adminProductIn, productView]{
		Method: http.MethodPost,
		Path:   "/admin/products",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *adminProductIn) (productView, error) {
			ctx := c.Request.Context()
			var err error
			switch {
			case in.Credentials != nil:
				_, err = h.auth.AuthorizeAdmin(ctx, strings.TrimSpace(in.Credentials.Email), in.Credentials.Password)
			case c.GetString(ez.KeyUserID) != "":
				_, err = h.auth.AuthorizeAdminToken(ctx, c.GetString(ez.KeyUserID))
			default:
				err = domain.ErrAdminDenied
			}
			if err != nil {
				return productView{}, fail(err)
			}
			return h.create(c, in.Product)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []productView]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]productView, error) {
			ps, err := h.catalog.List(c.Request.Context())
			if err != nil {
				return nil, fail(err)
			}
			out := make([]productView, 0, len(ps))
			for i := range ps {
				out = append(out, toProductView(&ps[i]))
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[idURI, productView]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: ez.BindURI,
		Handler: func(c *gin.Context, in *idURI) (productView, error) {
			p, err := h.catalog.Get(c.Request.Context(), in.ID)
			if err != nil {
				return productView{}, fail(err)
			}
			return toProductView(p), nil
		},
	})
}

// MountAdmin 管理端分组已经过 AuthJWT(admin)
func (h *ProductHandler) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[productIn, productView]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: ez.BindJSON,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *productIn) (productView, error) {
			if _, err := h.auth.AuthorizeAdminToken(c.Request.Context(), c.GetString(ez.KeyUserID)); err != nil {
				return productView{}, fail(err)
			}
			return h.create(c, *in)
		},
	})
}

func (h *ProductHandler) create(c *gin.Context, in productIn) (productView, error) {
	p, err := h.catalog.Create(c.Request.Context(), in.toInput())
	if err != nil {
		return productView{}, fail(err)
	}
	return toProductView(p), nil
}
