package handlers

import (
	"net/http"
	"slices"

	"github.com/gartstein/guardroster/internal/console/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const companyInformationPage = "company-information"

type taxClearanceRequest struct {
	TaxClearance string `form:"tax_clearance" json:"tax_clearance" binding:"required"`
}

func (h *Handler) registerLookups(g *gin.RouterGroup) {
	g.GET("/guards/company/:id", func(c *gin.Context) {
		guards, err := h.lookups.GuardsByCompany(c.Request.Context(), c.Param("id"))
		h.lookupResult(c, guards, err)
	})
	g.GET("/guards/status/:status", func(c *gin.Context) {
		status := models.GuardStatus(c.Param("status"))
		if !slices.Contains(models.GuardStatuses, status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown guard status"})
			return
		}
		guards, err := h.lookups.GuardsByStatus(c.Request.Context(), status)
		h.lookupResult(c, guards, err)
	})
	g.GET("/firearms/guard/:id", func(c *gin.Context) {
		firearms, err := h.lookups.FirearmsByGuard(c.Request.Context(), c.Param("id"))
		h.lookupResult(c, firearms, err)
	})
	g.GET("/firearms/company/:id", func(c *gin.Context) {
		firearms, err := h.lookups.FirearmsByCompany(c.Request.Context(), c.Param("id"))
		h.lookupResult(c, firearms, err)
	})
	g.PUT("/company-information/:id/tax-clearance", h.updateTaxClearance)
}

func (h *Handler) lookupResult(c *gin.Context, data any, err error) {
	if err != nil {
		h.logger.Error("lookup failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *Handler) updateTaxClearance(c *gin.Context) {
	var req taxClearanceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tax_clearance is required"})
		return
	}
	id := c.Param("id")
	if err := h.lookups.UpdateTaxClearance(c.Request.Context(), id, req.TaxClearance); err != nil {
		h.logger.Error("tax clearance update failed", zap.String("record_id", id), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if page, ok := h.pages.Get(companyInformationPage); ok {
		if err := page.Refresh(c.Request.Context()); err != nil {
			h.logger.Warn("refresh after tax clearance update failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
