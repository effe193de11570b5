package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OpenDetail abre la vista de detalle de una moneda y espera el resultado mientras dure la petición
func (h *Handler) OpenDetail(c *gin.Context) {
	done := h.detail.Open(c.Request.Context(), c.Param("id"))

	select {
	case <-done:
	case <-c.Request.Context().Done():
		// El detalle sigue cargándose en segundo plano
	}

	c.JSON(http.StatusOK, h.detail.State())
}

// GetDetail devuelve el estado de la vista de detalle
func (h *Handler) GetDetail(c *gin.Context) {
	c.JSON(http.StatusOK, h.detail.State())
}

// CloseDetail cierra la vista de detalle
func (h *Handler) CloseDetail(c *gin.Context) {
	h.detail.Close()
	c.JSON(http.StatusOK, gin.H{"message": "Vista de detalle cerrada"})
}
