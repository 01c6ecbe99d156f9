package services

import (
	"context"
	"errors"
	"strings"

	"milano/entity"
	"milano/pkg/apperr"
	"milano/pkg/logger"
	"milano/repository"
)

type ReviewService struct {
	Reviews repository.ReviewStore
	Users   repository.UserStore
}

func NewReviewService(reviews repository.ReviewStore, users repository.UserStore) *ReviewService {
	return &ReviewService{Reviews: reviews, Users: users}
}

// pointers so a missing field can be told apart from zero
type CreateReviewReq struct {
	UserID     *uint   `json:"userId"`
	MenuItemID *uint   `json:"menuItemId"`
	Rating     *int    `json:"rating"`
	Comment    *string `json:"comment"`
}

type ReviewSummary struct {
	Reviews       []entity.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
	TotalReviews  int64           `json:"totalReviews"`
}

func (s *ReviewService) Create(ctx context.Context, req CreateReviewReq) (*entity.Review, error) {
	if req.UserID == nil || req.MenuItemID == nil || req.Rating == nil {
		return nil, apperr.Validation("userId, menuItemId and rating are required")
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	r := &entity.Review{
		UserID:     *req.UserID,
		MenuItemID: *req.MenuItemID,
		Rating:     *req.Rating,
	}
	if req.Comment != nil {
		if c := strings.TrimSpace(*req.Comment); c != "" {
			r.Comment = &c
		}
	}

	if err := s.Reviews.CreateReview(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("you have already reviewed this item")
		}
		return nil, apperr.Unavailable(err, "could not save review")
	}
	logger.FromContext(ctx).WithField("review", r.ID).Info("review created")
	return r, nil
}

func (s *ReviewService) ListForItem(ctx context.Context, menuItemID uint) (*ReviewSummary, error) {
	if menuItemID == 0 {
		return nil, apperr.Validation("menuItemId is required")
	}
	reviews, err := s.Reviews.ListReviews(ctx, menuItemID)
	if err != nil {
		return nil, apperr.Unavailable(err, "could not list reviews")
	}
	avg, count, err := s.Reviews.RatingStats(ctx, menuItemID)
	if err != nil {
		return nil, apperr.Unavailable(err, "could not compute rating")
	}

	if len(reviews) > 0 && s.Users != nil {
		ids := make([]uint, len(reviews))
		for i, r := range reviews {
			ids[i] = r.UserID
		}
		if users, err := s.Users.FindUsers(ctx, ids); err == nil {
			for i := range reviews {
				reviews[i].UserName = users[reviews[i].UserID].Name
			}
		} else {
			logger.FromContext(ctx).WithError(err).Warn("review authors unavailable")
		}
	}
	if reviews == nil {
		reviews = []entity.Review{}
	}
	return &ReviewSummary{Reviews: reviews, AverageRating: avg, TotalReviews: count}, nil
}
