package controllers

import (
	"milano/pkg/resp"
	"milano/services"

	"github.com/gin-gonic/gin"
)

type GeocodeController struct {
	geo *services.Geocoder
}

func NewGeocodeController(geo *services.Geocoder) *GeocodeController {
	return &GeocodeController{geo: geo}
}

// GET /geocode/reverse?lat=&lng=
func (gc *GeocodeController) Reverse(c *gin.Context) {
	lat, err := queryFloat(c, "lat")
	if err != nil {
		resp.Error(c, err)
		return
	}
	lng, err := queryFloat(c, "lng")
	if err != nil {
		resp.Error(c, err)
		return
	}
	if err := services.ValidateCoords(lat, lng); err != nil {
		resp.Error(c, err)
		return
	}
	address, _ := gc.geo.Reverse(c.Request.Context(), lat, lng)
	resp.OK(c, gin.H{"address": address, "latitude": lat, "longitude": lng})
}
