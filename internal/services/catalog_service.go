package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/curriculum-service/internal/models"
	"github.com/SAP-F-2025/curriculum-service/internal/repositories"
	"github.com/SAP-F-2025/curriculum-service/internal/validator"
)

// catalogService manages the faculty/degree/specialty/subject hierarchy.
// Role gating happens at the handler layer; the service enforces
// referential integrity and id allocation.
type catalogService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) *catalogService {
	return &catalogService{repo: repo, logger: logger, validator: v}
}

func (s *catalogService) CreateFaculty(ctx context.Context, req CreateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var faculty models.Faculty
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		id, err := txRepo.Sequences().Next(ctx, models.SeqFaculty)
		if err != nil {
			return fmt.Errorf("failed to allocate faculty id: %w", err)
		}
		faculty = models.Faculty{ID: id, Name: req.Name}
		return txRepo.Catalog().CreateFaculty(ctx, &faculty)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Faculty created", "faculty_id", faculty.ID)
	return &faculty, nil
}

func (s *catalogService) ListFaculties(ctx context.Context) ([]*models.Faculty, error) {
	return s.repo.Catalog().ListFaculties(ctx)
}

func (s *catalogService) CreateDegree(ctx context.Context, req CreateDegreeRequest) (*models.Degree, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Catalog().GetFacultyByID(ctx, req.FacultyID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFacultyNotFound
		}
		return nil, err
	}

	var degree models.Degree
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		id, err := txRepo.Sequences().Next(ctx, models.SeqDegree)
		if err != nil {
			return fmt.Errorf("failed to allocate degree id: %w", err)
		}
		degree = models.Degree{ID: id, Name: req.Name, FacultyID: req.FacultyID}
		return txRepo.Catalog().CreateDegree(ctx, &degree)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Degree created", "degree_id", degree.ID, "faculty_id", degree.FacultyID)
	return &degree, nil
}

func (s *catalogService) ListDegreesByFaculty(ctx context.Context, facultyID uint) ([]*models.Degree, error) {
	return s.repo.Catalog().ListDegreesByFaculty(ctx, facultyID)
}

func (s *catalogService) CreateSpecialty(ctx context.Context, req CreateSpecialtyRequest) (*models.Specialty, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Catalog().GetDegreeByID(ctx, req.DegreeID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDegreeNotFound
		}
		return nil, err
	}

	var specialty models.Specialty
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		id, err := txRepo.Sequences().Next(ctx, models.SeqSpecialty)
		if err != nil {
			return fmt.Errorf("failed to allocate specialty id: %w", err)
		}
		specialty = models.Specialty{ID: id, Name: req.Name, DegreeID: req.DegreeID}
		return txRepo.Catalog().CreateSpecialty(ctx, &specialty)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Specialty created", "specialty_id", specialty.ID, "degree_id", specialty.DegreeID)
	return &specialty, nil
}

func (s *catalogService) ListSpecialtiesByDegree(ctx context.Context, degreeID uint) ([]*models.Specialty, error) {
	return s.repo.Catalog().ListSpecialtiesByDegree(ctx, degreeID)
}

func (s *catalogService) CreateSubject(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Catalog().GetDegreeByID(ctx, req.DegreeID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDegreeNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Catalog().GetSpecialtyByID(ctx, req.SpecialtyID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSpecialtyNotFound
		}
		return nil, err
	}

	if _, err := s.repo.Subjects().GetByCode(ctx, req.Code); err == nil {
		return nil, ErrSubjectCodeTaken
	} else if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	var subject models.Subject
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		id, err := txRepo.Sequences().Next(ctx, models.SeqSubject)
		if err != nil {
			return fmt.Errorf("failed to allocate subject id: %w", err)
		}

		subject = models.Subject{
			ID:          id,
			Name:        req.Name,
			Code:        req.Code,
			DegreeID:    req.DegreeID,
			SpecialtyID: req.SpecialtyID,
			Course:      models.SubjectCourse(req.Course),
		}
		if err := txRepo.Subjects().Create(ctx, &subject); err != nil {
			return err
		}

		// Bind the subject into the relation table. Enrollment that
		// arrived before the subject existed is preserved.
		return txRepo.Aggregates().BindSubject(ctx, id, req.Code)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Subject created",
		"subject_id", subject.ID,
		"code", subject.Code)
	return &subject, nil
}

func (s *catalogService) GetSubject(ctx context.Context, id uint) (*models.Subject, error) {
	subject, err := s.repo.Subjects().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return subject, nil
}

func (s *catalogService) ListSubjects(ctx context.Context, filters repositories.SubjectFilters) ([]*models.Subject, error) {
	return s.repo.Subjects().List(ctx, filters)
}
