package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	auditdomain "github.com/Nonie001/chns/internal/audit/domain"
	donationdomain "github.com/Nonie001/chns/internal/donation/domain"
)

// CreateDonation accepts a public submission. The slip must already have
// been uploaded through the slip endpoint; only its URL travels here.
func (s *Server) CreateDonation(c *gin.Context) {
	if !s.submitLimiter.Allow(c.ClientIP()) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	var req donationdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	donation, err := s.donationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": donation})
}

func (s *Server) ListDonations(c *gin.Context) {
	var query donationdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	donations, err := s.donationSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": donations})
}

func (s *Server) GetDonation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	donation, err := s.donationSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": donation})
}

// ApproveDonation runs the issuance pipeline. The response distinguishes
// "approved and receipt sent" from "approved but email not sent"; both are
// successes from the record's perspective.
func (s *Server) ApproveDonation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	result, err := s.donationSvc.Approve(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(c.Request.Context(), s.adminEmail(c),
			auditdomain.ActionDonationApprove, auditdomain.TargetTypeDonation, id,
			map[string]any{"pdf_url": result.PDFURL, "email_sent": result.EmailSent})
	}

	message := "Donation approved and receipt sent successfully"
	if !result.EmailSent {
		message = "Donation approved successfully (email not sent - configure email in Settings)"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   message,
		"emailSent": result.EmailSent,
		"pdfUrl":    result.PDFURL,
	})
}

func (s *Server) RejectDonation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.donationSvc.Reject(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(c.Request.Context(), s.adminEmail(c),
			auditdomain.ActionDonationReject, auditdomain.TargetTypeDonation, id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Donation rejected"})
}

func (s *Server) DeleteDonation(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.donationSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.Record(c.Request.Context(), s.adminEmail(c),
			auditdomain.ActionDonationDelete, auditdomain.TargetTypeDonation, id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Donation deleted successfully"})
}
