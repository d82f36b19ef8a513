package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/model"
	"github.com/gccheapcars/rental-api/internal/repository"
)

// EnquiryService handles contact-form submissions from the public site.
type EnquiryService struct {
	enquiries repository.EnquiryRepository
	logger    *slog.Logger
}

// NewEnquiryService creates an EnquiryService.
func NewEnquiryService(enquiries repository.EnquiryRepository, logger *slog.Logger) *EnquiryService {
	return &EnquiryService{
		enquiries: enquiries,
		logger:    logger,
	}
}

// Create validates and stores an enquiry. Name and phone are the only
// required fields — this is a phone-first business and many customers skip
// email entirely.
func (s *EnquiryService) Create(ctx context.Context, enq *model.Enquiry) error {
	enq.Name = strings.TrimSpace(enq.Name)
	enq.Phone = strings.TrimSpace(enq.Phone)
	enq.Email = strings.TrimSpace(enq.Email)

	if enq.Name == "" {
		return apperror.ValidationFailed("name", "name is required")
	}
	if enq.Phone == "" {
		return apperror.ValidationFailed("phone", "phone is required")
	}

	if err := s.enquiries.Create(ctx, enq); err != nil {
		return fmt.Errorf("creating enquiry: %w", err)
	}

	// Logged in full so the office sees enquiries in the server output
	// even before anyone checks the admin list.
	s.logger.Info("new enquiry received",
		slog.Int64("id", enq.ID),
		slog.String("name", enq.Name),
		slog.String("phone", enq.Phone),
		slog.String("email", enq.Email),
		slog.String("rentalDuration", enq.RentalDuration),
		slog.String("vehicleInterest", enq.VehicleInterest),
		slog.String("message", enq.Message),
	)
	return nil
}

// List returns all enquiries, newest first.
func (s *EnquiryService) List(ctx context.Context) ([]model.Enquiry, error) {
	return s.enquiries.List(ctx)
}
