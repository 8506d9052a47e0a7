package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minimart/internal/uploads"
)

/*
POST /admin/api/uploads
- multipart field "image"
- returns the public URL to store on a product, category, banner or hero
*/
func UploadImage(images *uploads.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/uploads"
		defer handlePanic(c, route)

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uploads.MaxImageSize+1<<20)

		if _, err := c.FormFile("image"); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "image file required")
			return
		}

		url, err := saveFormImage(c, images)
		if err != nil {
			respondMultipartError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}
