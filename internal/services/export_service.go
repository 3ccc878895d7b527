package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

var exportHeaders = []string{
	"No", "Title", "Body", "State", "Objective", "Answer", "Baseline Answer", "Topic", "Sub Topic",
}

func (s *exportService) ExportQuizQuestions(ctx context.Context, quizID uint, userID string) ([]byte, string, error) {
	s.logger.Info("Exporting quiz questions", "quiz_id", quizID, "user_id", userID)

	quiz, err := s.repo.Quiz().GetByID(ctx, nil, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrQuizNotFound
		}
		return nil, "", fmt.Errorf("failed to get quiz: %w", err)
	}

	// The export carries answers, so it stays owner-only
	if quiz.UserID != userID {
		role, err := getUserRole(ctx, s.repo, userID)
		if err != nil {
			return nil, "", err
		}
		if role != models.RoleAdmin {
			return nil, "", NewPermissionError(userID, quizID, "quiz", "export", "not the quiz owner")
		}
	}

	buckets, err := s.repo.Quiz().GetQuestionsByState(ctx, nil, quizID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get quiz questions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Questions"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := 2
	for _, bucket := range [][]*models.Question{buckets.Active, buckets.Edited, buckets.Draft} {
		for _, question := range bucket {
			if err := s.writeQuestionRow(f, sheet, row, question); err != nil {
				return nil, "", err
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("quiz_%d_questions_%s.xlsx", quizID, time.Now().Format("20060102"))

	s.logger.Info("Quiz questions exported", "quiz_id", quizID, "rows", row-2)

	return buf.Bytes(), filename, nil
}

func (s *exportService) writeQuestionRow(f *excelize.File, sheet string, row int, question *models.Question) error {
	values := []interface{}{
		question.QuestionNumber,
		question.Title,
		question.Body,
		string(question.State),
		question.IsObjective,
		deref(question.Answer),
		deref(question.BaselineAnswer),
		deref(question.Topic),
		deref(question.SubTopic),
	}

	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to build cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell: %w", err)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
