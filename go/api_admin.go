package storefrontserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	adminhttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/admin/adapters/http/mapper"
	adminapp "github.com/Apurer/go-gin-storefront/internal/domains/admin/application"
	adminports "github.com/Apurer/go-gin-storefront/internal/domains/admin/ports"
)

const adminUserKey = "admin.username"

// AdminAPI wires HTTP transport with admin authentication.
type AdminAPI struct {
	service adminports.Service
}

func NewAdminAPI(service adminports.Service) AdminAPI {
	return AdminAPI{service: service}
}

// Post /admin/login
// Exchanges admin credentials for a bearer token
func (api *AdminAPI) Login(c *gin.Context) {
	var payload adminhttpmapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	session, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adminhttpmapper.LoginResponse{Token: session.Token})
}

// Post /admin/logout
// Revokes the presented bearer token
func (api *AdminAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), bearerToken(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequireAdmin rejects requests without a live admin session.
func (api *AdminAPI) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondServiceError(c, adminapp.ErrAuthentication)
			c.Abort()
			return
		}
		session, err := api.service.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondServiceError(c, err)
			c.Abort()
			return
		}
		c.Set(adminUserKey, session.Username)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
