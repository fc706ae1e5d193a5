package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	donationdomain "github.com/Nonie001/chns/internal/donation/domain"
)

// PreviewReceipt renders a donation-shaped payload without persisting
// anything, so an admin can inspect the exact document an approval would
// produce. Returns raw PDF bytes.
func (s *Server) PreviewReceipt(c *gin.Context) {
	var req donationdomain.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	pdf, err := s.donationSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
