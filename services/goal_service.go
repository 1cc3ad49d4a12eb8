package services

import (
	"context"
	"errors"
	"strings"

	"dailyMotivatorAPI/internal/apperr"
	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/goal"
)

type GoalService struct {
	store storage.GoalStore
}

func NewGoalService(store storage.GoalStore) *GoalService {
	return &GoalService{store: store}
}

func (s *GoalService) CreateGoal(ctx context.Context, userID string, req *goal.CreateGoalRequest) (*goal.Goal, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.BadRequest("Title is required")
	}

	now := timeNow()
	g, err := s.store.CreateGoal(ctx, &goal.Goal{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, apperr.Internal("Failed to create goal", err)
	}
	return g, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, userID, goalID string, req *goal.UpdateGoalRequest) (*goal.Goal, error) {
	if req.Empty() {
		return nil, apperr.BadRequest("No fields to update")
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperr.BadRequest("Title cannot be empty")
		}
		req.Title = &title
	}

	g, err := s.store.UpdateGoal(ctx, userID, goalID, req, timeNow())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("Goal not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to update goal", err)
	}
	return g, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	err := s.store.DeleteGoal(ctx, userID, goalID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("Goal not found")
	}
	if err != nil {
		return apperr.Internal("Failed to delete goal", err)
	}
	return nil
}

func (s *GoalService) ListGoals(ctx context.Context, userID string) ([]*goal.Goal, error) {
	list, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch goals", err)
	}
	return list, nil
}
