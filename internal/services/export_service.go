package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

// exportService renders proposal reports as spreadsheets for faculty
// record keeping.
type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) *exportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportSubjectProposals(ctx context.Context, subjectID uint) (*excelize.File, error) {
	subject, err := s.repo.Subjects().GetByID(ctx, subjectID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	proposals, err := s.repo.Proposals().ListBySubject(ctx, subjectID, repositories.ProposalFilters{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Proposals"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{"ID", "Title", "Author Role", "State", "Supporting", "Against", "Expected", "Published", "Voting Ends"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, p := range proposals {
		values := []interface{}{
			p.ID,
			p.Title,
			string(p.AuthorRole),
			string(p.State),
			p.SupportingVotes,
			p.AgainstVotes,
			p.ExpectedVotes,
			time.Unix(p.PublishingTimestamp, 0).UTC().Format(time.RFC3339),
			time.Unix(p.EndingTimestamp, 0).UTC().Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	s.logger.Info("Subject proposals exported",
		"subject_id", subjectID,
		"subject_code", subject.Code,
		"proposals", len(proposals))
	return f, nil
}
