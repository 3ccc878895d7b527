package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

// getUserRole resolves the caller's role from the user directory
func getUserRole(ctx context.Context, repo repositories.Repository, userID string) (models.UserRole, error) {
	user, err := repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	return user.Role, nil
}

// buildQuestionResponse converts a question model into the API view.
// Answers and the grading baseline are cleared unless the caller owns the
// authoring context.
func buildQuestionResponse(q *models.Question, includeAnswers bool) *QuestionResponse {
	resp := &QuestionResponse{
		ID:             q.ID,
		QuestionNumber: q.QuestionNumber,
		Title:          q.Title,
		Body:           q.Body,
		IsObjective:    q.IsObjective,
		State:          q.State,
		ChoiceBody:     q.ChoiceBody,
		Topic:          q.Topic,
		SubTopic:       q.SubTopic,
		SubjectID:      q.SubjectID,
		DivisionID:     q.DivisionID,
		SchoolID:       q.SchoolID,
		CreatedBy:      q.UserID,
		CreatedAt:      q.CreatedAt,
	}

	if includeAnswers {
		resp.Answer = q.Answer
		resp.BaselineAnswer = q.BaselineAnswer
	}

	return resp
}

func buildQuizResponse(q *models.Quiz) *QuizResponse {
	return &QuizResponse{
		ID:           q.ID,
		Title:        q.Title,
		StartDate:    q.StartDate,
		Duration:     q.Duration,
		DueDate:      q.DueDate(),
		Topic:        q.Topic,
		SubTopic:     q.SubTopic,
		QuizType:     q.QuizType,
		IsPublic:     q.IsPublic,
		Instructions: q.Instructions,
		TotalMarks:   q.TotalMarks,
		SubjectID:    q.SubjectID,
		DivisionID:   q.DivisionID,
		SchoolID:     q.SchoolID,
		CreatedBy:    q.UserID,
		CreatedAt:    q.CreatedAt,
	}
}

func buildTaskResponse(t *models.TeacherTask) *TaskResponse {
	resp := &TaskResponse{
		ID:              t.ID,
		Title:           t.Title,
		TaskType:        t.TaskType,
		Status:          t.Status,
		StartDate:       t.StartDate,
		EndDate:         t.EndDate,
		Instructions:    t.Instructions,
		SubjectID:       t.SubjectID,
		TeacherID:       t.TeacherID,
		DivisionID:      t.DivisionID,
		ClassScheduleID: t.ClassScheduleID,
		QuizID:          t.QuizID,
		PublishedQuizID: t.PublishedQuizID,
		CreatedAt:       t.CreatedAt,
	}

	if t.Quiz != nil {
		resp.Quiz = buildQuizResponse(t.Quiz)
	}

	return resp
}

func pageFor(limit, offset int) int {
	if limit <= 0 {
		return 1
	}
	return (offset / limit) + 1
}
