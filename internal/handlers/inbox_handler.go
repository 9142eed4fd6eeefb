package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/joshua-takyi/vena/internal/services"
)

func CreateLead(l *services.LeadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		var lead models.Lead
		if err := c.ShouldBindJSON(&lead); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload"))
			return
		}
		created, err := l.CreateLead(c.Request.Context(), vendorID, &lead, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to create lead")
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "Lead created successfully"))
	}
}

func ListLeads(l *services.LeadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		leads, err := l.ListLeads(c.Request.Context(), vendorID, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to list leads")
			return
		}
		paginated(c, leads)
	}
}

func UpdateLead(l *services.LeadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		fields, ok := bindFields(c)
		if !ok {
			return
		}
		updated, err := l.UpdateLead(c.Request.Context(), id, vendorID, fields, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to update lead")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(updated, "Lead updated successfully"))
	}
}

func DeleteLead(l *services.LeadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id")
		if !ok {
			return
		}
		if err := l.DeleteLead(c.Request.Context(), id, vendorID, claims.AccessToken); err != nil {
			respondError(c, err, "failed to delete lead")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Lead deleted successfully"))
	}
}

func ListFeedback(f *services.FeedbackService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, vendorID, ok := vendorClaims(c)
		if !ok {
			return
		}
		feedback, err := f.ListFeedback(c.Request.Context(), vendorID, claims.AccessToken)
		if err != nil {
			respondError(c, err, "failed to list feedback")
			return
		}
		paginated(c, feedback)
	}
}

func ListNotifications(d *services.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := vendorClaims(c)
		if !ok {
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid limit parameter"))
			return
		}
		notifications, err := d.List(c.Request.Context(), claims.UserID, limit)
		if err != nil {
			respondError(c, err, "failed to list notifications")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(notifications, ""))
	}
}

func MarkNotificationRead(d *services.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := vendorClaims(c)
		if !ok {
			return
		}
		if err := d.MarkRead(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
			respondError(c, err, "failed to update notification")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Notification marked as read"))
	}
}

func MarkAllNotificationsRead(d *services.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _, ok := vendorClaims(c)
		if !ok {
			return
		}
		updated, err := d.MarkAllRead(c.Request.Context(), claims.UserID)
		if err != nil {
			respondError(c, err, "failed to update notifications")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{"updated": updated}, "All notifications marked as read"))
	}
}
