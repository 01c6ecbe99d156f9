package controllers

import (
	"milano/pkg/resp"
	"milano/services"

	"github.com/gin-gonic/gin"
)

// MenuController never fails: the catalog falls back to the built-in demo menu.
type MenuController struct {
	catalog *services.CatalogService
}

func NewMenuController(catalog *services.CatalogService) *MenuController {
	return &MenuController{catalog: catalog}
}

func (mc *MenuController) lang(c *gin.Context) string {
	return services.ResolveLanguage(c.Query("lang"), c.GetHeader("Accept-Language"), mc.catalog.Lang)
}

// GET /menu?lang=
func (mc *MenuController) Menu(c *gin.Context) {
	resp.OK(c, gin.H{"menuItems": mc.catalog.Menu(c.Request.Context(), mc.lang(c))})
}

// GET /categories?lang=
func (mc *MenuController) Categories(c *gin.Context) {
	resp.OK(c, gin.H{"categories": mc.catalog.Categories(c.Request.Context(), mc.lang(c))})
}
