package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/collab"
	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/platform/logger"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// ScholarshipData is the composite read model for one scholarship. Owner is
// the live owner of record from the registry, which can differ from the
// owner the token was originally minted to.
type ScholarshipData struct {
	ID       uint64    `json:"id"`
	Owner    uuid.UUID `json:"owner"`
	Metadata string    `json:"metadata"`
	Balance  uint64    `json:"balance"`
	Frozen   bool      `json:"frozen"`
}

// ScholarshipService creates scholarship records and serves their composite
// reads.
type ScholarshipService interface {
	// CreateScholarship mints a registry token for the student and opens the
	// matching ledger record. Returns the new scholarship id.
	CreateScholarship(ctx context.Context, student uuid.UUID, metadata string) (uint64, error)

	// GetScholarshipData returns the composite view of one scholarship.
	GetScholarshipData(ctx context.Context, id uint64) (*ScholarshipData, error)

	// GetAllScholarships returns every scholarship id in creation order.
	GetAllScholarships(ctx context.Context) ([]uint64, error)

	// GetScholarshipsByStudent returns the ids minted to the student, in
	// creation order. Tokens later transferred away are still listed; mint
	// records do not follow ownership.
	GetScholarshipsByStudent(ctx context.Context, student uuid.UUID) ([]uint64, error)
}

type scholarshipService struct {
	runner   store.Runner
	registry collab.Registry
	logger   *slog.Logger
}

// NewScholarshipService creates the scholarship lifecycle service.
func NewScholarshipService(runner store.Runner, registry collab.Registry, log *slog.Logger) ScholarshipService {
	if runner == nil || registry == nil {
		// ALLOW-PANIC: constructor enforcing required dependencies
		panic("scholarship service dependencies cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &scholarshipService{
		runner:   runner,
		registry: registry,
		logger:   log.With(slog.String("component", "scholarship_service")),
	}
}

// CreateScholarship implements ScholarshipService.CreateScholarship. The
// registry mint happens first so the ledger record carries the registry's
// id; the ledger insert and the empty rating aggregate commit together.
func (s *scholarshipService) CreateScholarship(ctx context.Context, student uuid.UUID, metadata string) (uint64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if student == uuid.Nil {
		return 0, wrapErr("create_scholarship", domain.ErrOwnerEmpty)
	}
	if metadata == "" {
		return 0, wrapErr("create_scholarship", domain.ErrMetadataEmpty)
	}

	id, err := s.registry.MintToken(ctx, student, metadata)
	if err != nil {
		return 0, wrapErr("create_scholarship", err)
	}

	err = s.runner.RunInTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		sch, err := domain.NewScholarship(id, student, metadata)
		if err != nil {
			return err
		}
		if err := st.Scholarships.Create(ctx, sch); err != nil {
			return err
		}
		return st.Ratings.Create(ctx, &domain.RatingAggregate{ScholarshipID: id})
	})
	if err != nil {
		return 0, wrapErr("create_scholarship", err)
	}

	log.Info("scholarship created",
		slog.Uint64("scholarship_id", id),
		slog.String("student", student.String()))
	return id, nil
}

// GetScholarshipData implements ScholarshipService.GetScholarshipData.
func (s *scholarshipService) GetScholarshipData(ctx context.Context, id uint64) (*ScholarshipData, error) {
	sch, err := s.runner.Stores().Scholarships.GetByID(ctx, id)
	if err != nil {
		return nil, wrapErr("get_scholarship_data", err)
	}

	owner, err := s.registry.OwnerOf(ctx, id)
	if err != nil {
		if errors.Is(err, collab.ErrUnknownToken) {
			return nil, wrapErr("get_scholarship_data", store.ErrScholarshipNotFound)
		}
		return nil, wrapErr("get_scholarship_data", err)
	}

	return &ScholarshipData{
		ID:       sch.ID,
		Owner:    owner,
		Metadata: sch.Metadata,
		Balance:  sch.Balance,
		Frozen:   sch.Frozen,
	}, nil
}

// GetAllScholarships implements ScholarshipService.GetAllScholarships.
func (s *scholarshipService) GetAllScholarships(ctx context.Context) ([]uint64, error) {
	ids, err := s.runner.Stores().Scholarships.ListIDs(ctx)
	return ids, wrapErr("get_all_scholarships", err)
}

// GetScholarshipsByStudent implements
// ScholarshipService.GetScholarshipsByStudent.
func (s *scholarshipService) GetScholarshipsByStudent(ctx context.Context, student uuid.UUID) ([]uint64, error) {
	ids, err := s.runner.Stores().Scholarships.ListIDsByOwner(ctx, student)
	return ids, wrapErr("get_scholarships_by_student", err)
}
