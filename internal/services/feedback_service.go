package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/models"
)

type FeedbackService struct {
	feedbackRepo models.FeedbackRepo
	now          func() time.Time
}

func NewFeedbackService(feedbackRepo models.FeedbackRepo) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo, now: time.Now}
}

// SubmitFeedback stores a client's rating. An empty satisfaction level is
// derived from the rating.
func (fs *FeedbackService) SubmitFeedback(ctx context.Context, vendorID uuid.UUID, feedback *models.ClientFeedback) (*models.ClientFeedback, error) {
	if vendorID == uuid.Nil {
		return nil, &ValidationError{Fields: map[string]string{"vendor_id": "required"}, Message: "unknown vendor"}
	}
	if err := validateStruct(feedback, nil); err != nil {
		return nil, err
	}
	switch feedback.Satisfaction {
	case "":
		feedback.Satisfaction = models.SatisfactionFor(feedback.Rating)
	case models.SatisfactionVerySatisfied, models.SatisfactionSatisfied, models.SatisfactionNeutral, models.SatisfactionUnsatisfied:
	default:
		return nil, &ValidationError{Fields: map[string]string{"satisfaction": "oneof"}, Message: "unknown satisfaction level"}
	}

	feedback.UserID = vendorID
	feedback.ClientName = helpers.StringTrim(feedback.ClientName)
	if feedback.Date == "" {
		feedback.Date = fs.now().Format(time.DateOnly)
	}

	created, err := fs.feedbackRepo.CreateFeedback(context.WithoutCancel(ctx), feedback)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return created, nil
}

func (fs *FeedbackService) ListFeedback(ctx context.Context, vendorID uuid.UUID, accessToken string) ([]*models.ClientFeedback, error) {
	return fs.feedbackRepo.ListFeedback(ctx, vendorID, accessToken)
}
