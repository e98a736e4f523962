package business

import (
	"context"
	"errors"
	"strings"

	"akaguriroo-backend/internal/domain"
	"akaguriroo-backend/internal/pkg/apperr"
	"akaguriroo-backend/internal/pkg/patch"
	"akaguriroo-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound = apperr.NotFound("Business not found")
	ErrBusinessExists   = apperr.Conflict("You already have a business")
)

// Service encapsulates business profile operations.
type Service struct {
	DB *gorm.DB
}

// CreateBusinessInput is the POST /businesses body.
type CreateBusinessInput struct {
	BusinessName     string  `json:"business_name" validate:"required,max=255"`
	VATNumber        *string `json:"vat_number" validate:"omitempty,max=64"`
	SubscriptionPlan *string `json:"subscription_plan" validate:"omitempty,max=64"`
	IsPaid           bool    `json:"is_paid"`
	Website          *string `json:"website" validate:"omitempty,url"`
	ContactEmail     *string `json:"contact_email" validate:"omitempty,email"`
}

// UpdateBusinessInput is the PATCH /businesses body; nil fields are left untouched.
type UpdateBusinessInput struct {
	BusinessName     *string `json:"business_name" validate:"omitempty,max=255"`
	VATNumber        *string `json:"vat_number" validate:"omitempty,max=64"`
	SubscriptionPlan *string `json:"subscription_plan" validate:"omitempty,max=64"`
	IsPaid           *bool   `json:"is_paid"`
	Website          *string `json:"website" validate:"omitempty,url"`
	ContactEmail     *string `json:"contact_email" validate:"omitempty,email"`
}

// normalize trims the optional fields and drops blank ones before validation.
func (in *CreateBusinessInput) normalize() {
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.VATNumber = trimmed(in.VATNumber)
	in.SubscriptionPlan = trimmed(in.SubscriptionPlan)
	in.Website = trimmed(in.Website)
	in.ContactEmail = trimmed(in.ContactEmail)
}

func (in *UpdateBusinessInput) normalize() {
	in.BusinessName = trimmed(in.BusinessName)
	in.VATNumber = trimmed(in.VATNumber)
	in.SubscriptionPlan = trimmed(in.SubscriptionPlan)
	in.Website = trimmed(in.Website)
	in.ContactEmail = trimmed(in.ContactEmail)
}

// CreateBusiness registers the caller's business. A user has at most one.
func (s *Service) CreateBusiness(ctx context.Context, userID uuid.UUID, in CreateBusinessInput) (*domain.Business, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	b := &domain.Business{
		UserID:           userID,
		BusinessName:     in.BusinessName,
		VATNumber:        in.VATNumber,
		SubscriptionPlan: in.SubscriptionPlan,
		IsPaid:           in.IsPaid,
		Website:          in.Website,
		ContactEmail:     in.ContactEmail,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Business{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrBusinessExists
		}
		return tx.Create(b).Error
	})
	if err != nil {
		return nil, apperr.From(err)
	}
	return b, nil
}

// UpdateBusiness writes only the supplied fields of the caller's business.
func (s *Service) UpdateBusiness(ctx context.Context, userID uuid.UUID, in UpdateBusinessInput) (*domain.Business, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	cols, err := patch.New().
		String("business_name", in.BusinessName).
		String("vat_number", in.VATNumber).
		String("subscription_plan", in.SubscriptionPlan).
		Bool("is_paid", in.IsPaid).
		String("website", in.Website).
		String("contact_email", in.ContactEmail).
		Columns()
	if err != nil {
		return nil, err
	}

	res := s.DB.WithContext(ctx).Model(&domain.Business{}).Where("user_id = ?", userID).Updates(cols)
	if res.Error != nil {
		return nil, apperr.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrBusinessNotFound
	}
	return s.GetByUser(ctx, userID)
}

// GetByUser returns the caller's business.
func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Business, error) {
	var b domain.Business
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, apperr.Internal(err)
	}
	return &b, nil
}

// BusinessIDForUser scopes business reports to the caller.
func (s *Service) BusinessIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	b, err := s.GetByUser(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	return b.BusinessID, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
