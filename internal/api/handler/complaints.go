package handler

import (
	"errors"
	"guardaazul/backend/internal/complaint"
	"guardaazul/backend/internal/models"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CreateComplaint accepts a multipart complaint with an optional image.
func (h *Handler) CreateComplaint(c *gin.Context) {
	reporter, err := h.reporterID(c)
	if err != nil && !errors.Is(err, errNoToken) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token or expired"})
		return
	}

	lat, err := requiredFloat(c, "latitude")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	lng, err := requiredFloat(c, "longitude")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sub := complaint.Submission{
		Description: c.PostForm("description"),
		Latitude:    lat,
		Longitude:   lng,
		Address:     c.PostForm("address"),
		Category:    models.Category(c.PostForm("category")),
		ReporterID:  reporter,
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid image upload"})
		return
	default:
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid image upload"})
			return
		}
		defer f.Close()
		sub.Image = f
		sub.ImageName = fh.Filename
	}

	receipt, err := h.Complaints.Submit(c.Request.Context(), sub, h.lang(c))
	if err != nil {
		h.respondError(c, err, "error.complaint_not_found")
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func requiredFloat(c *gin.Context, field string) (float64, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return 0, errors.New(field + " is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(field + " must be a number")
	}
	return v, nil
}

// GetComplaintStatus is the polling surface for AI validation.
func (h *Handler) GetComplaintStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	view, err := h.Complaints.Status(c.Request.Context(), id, h.lang(c))
	if err != nil {
		h.respondError(c, err, "error.complaint_not_found")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) ListComplaints(c *gin.Context) {
	list, err := h.Complaints.List(c.Request.Context(), parseLimit(c))
	if err != nil {
		h.respondError(c, err, "error.complaint_not_found")
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

func (h *Handler) ListValidatedComplaints(c *gin.Context) {
	list, err := h.Complaints.ListValidated(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "error.complaint_not_found")
		return
	}
	c.JSON(http.StatusOK, nonNil(list))
}

func (h *Handler) GetComplaint(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	d, err := h.Complaints.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "error.complaint_not_found")
		return
	}
	c.JSON(http.StatusOK, d)
}

func nonNil(list []models.Complaint) []models.Complaint {
	if list == nil {
		return []models.Complaint{}
	}
	return list
}
