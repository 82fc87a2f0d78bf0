package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fruito-api/internal/domain"
	"fruito-api/internal/service"
	"fruito-api/internal/transport/http/ez"
)

type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler { return &AdminHandler{users: users} }

type userRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type userListOut struct {
	Total int64     `json:"total"`
	Items []userRow `json:"items"`
}

func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[pageQuery, userListOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *pageQuery) (userListOut, error) {
			us, total, err := h.users.List(c.Request.Context(), in.Offset, in.Limit)
			if err != nil {
				return userListOut{}, fail(err)
			}
			out := userListOut{Total: total, Items: make([]userRow, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, userRow{
					ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})
}
