package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/models"
	"github.com/joshua-takyi/vena/internal/services"
)

const IdempotencyHeader = "X-Idempotency-Key"

func PublicPackages(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := uuidParam(c, "vendor_id")
		if !ok {
			return
		}
		catalog, err := s.PublicCatalog(c.Request.Context(), vendorID)
		if err != nil {
			respondError(c, err, "failed to load packages")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(catalog, ""))
	}
}

func QuoteBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := uuidParam(c, "vendor_id")
		if !ok {
			return
		}
		var req models.QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request payload"))
			return
		}
		quote, err := b.Quote(c.Request.Context(), vendorID, &req)
		if err != nil {
			respondError(c, err, services.MsgBookingFailed)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(quote, quote.Promo.Message))
	}
}

// readSubmission accepts either a JSON body or a multipart form with the
// submission in "payload" and the optional proof in "dp_payment_proof".
func readSubmission(c *gin.Context) (*models.BookingSubmission, error) {
	var sub models.BookingSubmission
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&sub); err != nil {
			return nil, err
		}
		return &sub, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, helpers.MaxProofBytes+1<<20)
	if err := c.Request.ParseMultipartForm(8 << 20); err != nil {
		return nil, err
	}
	payload := c.PostForm("payload")
	if payload == "" {
		return nil, errors.New("payload is required")
	}
	if err := json.Unmarshal([]byte(payload), &sub); err != nil {
		return nil, err
	}

	fh, err := c.FormFile("dp_payment_proof")
	if errors.Is(err, http.ErrMissingFile) {
		return &sub, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size > helpers.MaxProofBytes {
		return nil, helpers.ErrProofTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, helpers.MaxProofBytes+1))
	if err != nil {
		return nil, err
	}
	sub.Proof = &models.ProofFile{Filename: fh.Filename, Data: data}
	return &sub, nil
}

func SubmitBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := uuidParam(c, "vendor_id")
		if !ok {
			return
		}
		sub, err := readSubmission(c)
		if err != nil {
			msg := services.MsgBookingFailed
			var maxErr *http.MaxBytesError
			if errors.Is(err, helpers.ErrProofTooLarge) || errors.As(err, &maxErr) {
				msg = services.MsgProofTooLarge
			}
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(msg))
			return
		}

		result, err := b.SubmitBooking(c.Request.Context(), vendorID, c.GetHeader(IdempotencyHeader), sub)
		if err != nil {
			var verr *services.ValidationError
			switch {
			case errors.As(err, &verr):
				res := helpers.ErrorResponse(verr.Message)
				res.Data = verr.Fields
				c.JSON(http.StatusBadRequest, res)
			case errors.Is(err, services.ErrPackageNotFound):
				c.JSON(http.StatusNotFound, helpers.ErrorResponse(services.MsgBookingFailed))
			case errors.Is(err, services.ErrDuplicateBooking):
				c.JSON(http.StatusConflict, helpers.ErrorResponse(services.MsgBookingBusy))
			default:
				_ = c.Error(err)
				c.JSON(http.StatusInternalServerError, helpers.ErrorResponse(services.MsgBookingFailed))
			}
			return
		}

		status := http.StatusCreated
		if result.Replayed {
			c.Header("Idempotent-Replayed", "true")
			status = http.StatusOK
		}
		c.JSON(status, helpers.SuccessResponse(gin.H{"project": result.Receipt.Project}, "Booking berhasil dikirim"))
	}
}

func SubmitLeadForm(l *services.LeadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := uuidParam(c, "vendor_id")
		if !ok {
			return
		}
		var form models.LeadForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(services.MsgFormFailed))
			return
		}
		lead, err := l.SubmitLeadForm(c.Request.Context(), vendorID, &form)
		if err != nil {
			respondError(c, err, services.MsgFormFailed)
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(lead, "Terima kasih! Kami akan segera menghubungi Anda."))
	}
}

func SubmitFeedback(f *services.FeedbackService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := uuidParam(c, "vendor_id")
		if !ok {
			return
		}
		var feedback models.ClientFeedback
		if err := c.ShouldBindJSON(&feedback); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(services.MsgFormFailed))
			return
		}
		created, err := f.SubmitFeedback(c.Request.Context(), vendorID, &feedback)
		if err != nil {
			respondError(c, err, services.MsgFormFailed)
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "Terima kasih atas masukan Anda!"))
	}
}

func ClientPortal(s *services.StudioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessID, ok := uuidParam(c, "access_id")
		if !ok {
			return
		}
		view, err := s.Portal(c.Request.Context(), accessID)
		if err != nil {
			respondError(c, err, "failed to load portal")
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(view, ""))
	}
}
