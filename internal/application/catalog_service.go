package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// LocationRepository captures the persistence interactions for court/space records.
type LocationRepository interface {
	CreateLocation(ctx context.Context, location Location) (Location, error)
	UpdateLocation(ctx context.Context, location Location) (Location, error)
	GetLocation(ctx context.Context, id string) (Location, error)
	ListLocations(ctx context.Context) ([]Location, error)
	DeleteLocation(ctx context.Context, id string) error
}

// ModalityRepository captures the persistence interactions for sport modalities.
type ModalityRepository interface {
	CreateModality(ctx context.Context, modality Modality) (Modality, error)
	UpdateModality(ctx context.Context, modality Modality) (Modality, error)
	GetModality(ctx context.Context, id string) (Modality, error)
	ListModalities(ctx context.Context) ([]Modality, error)
	DeleteModality(ctx context.Context, id string) error
}

// BillingPlanRepository captures the persistence interactions for billing plans.
type BillingPlanRepository interface {
	CreateBillingPlan(ctx context.Context, plan BillingPlan) (BillingPlan, error)
	UpdateBillingPlan(ctx context.Context, plan BillingPlan) (BillingPlan, error)
	GetBillingPlan(ctx context.Context, id string) (BillingPlan, error)
	ListBillingPlans(ctx context.Context) ([]BillingPlan, error)
	DeleteBillingPlan(ctx context.Context, id string) error
}

// LessonPlanRepository captures the persistence interactions for reusable lesson scripts.
type LessonPlanRepository interface {
	CreateLessonPlan(ctx context.Context, plan LessonPlan) (LessonPlan, error)
	UpdateLessonPlan(ctx context.Context, plan LessonPlan) (LessonPlan, error)
	GetLessonPlan(ctx context.Context, id string) (LessonPlan, error)
	ListLessonPlans(ctx context.Context) ([]LessonPlan, error)
	DeleteLessonPlan(ctx context.Context, id string) error
}

// CatalogService manages the reference collections lessons point at.
type CatalogService struct {
	locations    LocationRepository
	modalities   ModalityRepository
	billingPlans BillingPlanRepository
	lessonPlans  LessonPlanRepository
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewCatalogService constructs a CatalogService with the provided dependencies.
func NewCatalogService(locations LocationRepository, modalities ModalityRepository, billingPlans BillingPlanRepository, lessonPlans LessonPlanRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CatalogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CatalogService{
		locations:    locations,
		modalities:   modalities,
		billingPlans: billingPlans,
		lessonPlans:  lessonPlans,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, attrs...)
}

// --- locations ---

func (s *CatalogService) CreateLocation(ctx context.Context, principal Principal, input LocationInput) (result Location, err error) {
	if s == nil || s.locations == nil {
		err = fmt.Errorf("location repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateLocation", "principal_id", principal.StaffID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create location", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("location_id", result.ID).InfoContext(ctx, "location created")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if err = requireNome(input.Nome); err != nil {
		return
	}

	now := s.now()
	result, err = s.locations.CreateLocation(ctx, Location{
		ID:        s.idGenerator(),
		Nome:      strings.TrimSpace(input.Nome),
		Descricao: strings.TrimSpace(input.Descricao),
		Ativo:     input.Ativo,
		CreatedAt: now,
		UpdatedAt: now,
	})
	err = mapPeopleRepoError(err)
	return
}

func (s *CatalogService) UpdateLocation(ctx context.Context, principal Principal, locationID string, input LocationInput) (result Location, err error) {
	if s == nil || s.locations == nil {
		err = fmt.Errorf("location repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateLocation",
		"principal_id", principal.StaffID,
		"location_id", locationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update location", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "location updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if err = requireNome(input.Nome); err != nil {
		return
	}

	var existing Location
	existing, err = s.locations.GetLocation(ctx, locationID)
	if err != nil {
		err = mapPeopleRepoError(err)
		return
	}

	existing.Nome = strings.TrimSpace(input.Nome)
	existing.Descricao = strings.TrimSpace(input.Descricao)
	existing.Ativo = input.Ativo
	existing.UpdatedAt = s.now()

	result, err = s.locations.UpdateLocation(ctx, existing)
	err = mapPeopleRepoError(err)
	return
}

func (s *CatalogService) GetLocation(ctx context.Context, principal Principal, locationID string) (Location, error) {
	if s == nil || s.locations == nil {
		return Location{}, fmt.Errorf("location repository not configured")
	}
	location, err := s.locations.GetLocation(ctx, locationID)
	return location, mapPeopleRepoError(err)
}

func (s *CatalogService) ListLocations(ctx context.Context, principal Principal) ([]Location, error) {
	if s == nil || s.locations == nil {
		return nil, nil
	}
	locations, err := s.locations.ListLocations(ctx)
	if err != nil {
		return nil, mapPeopleRepoError(err)
	}
	sort.Slice(locations, func(i, j int) bool {
		return lessByName(locations[i].Nome, locations[i].ID, locations[j].Nome, locations[j].ID)
	})
	return locations, nil
}

func (s *CatalogService) DeleteLocation(ctx context.Context, principal Principal, locationID string) error {
	if s == nil || s.locations == nil {
		return fmt.Errorf("location repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteLocation",
		"principal_id", principal.StaffID,
		"location_id", locationID,
	)
	if err := mapPeopleRepoError(s.locations.DeleteLocation(ctx, locationID)); err != nil {
		logger.ErrorContext(ctx, "failed to delete location", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "location deleted")
	return nil
}

// --- modalities ---

func (s *CatalogService) CreateModality(ctx context.Context, principal Principal, input ModalityInput) (result Modality, err error) {
	if s == nil || s.modalities == nil {
		err = fmt.Errorf("modality repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateModality", "principal_id", principal.StaffID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create modality", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("modality_id", result.ID).InfoContext(ctx, "modality created")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if err = requireNome(input.Nome); err != nil {
		return
	}

	now := s.now()
	result, err = s.modalities.CreateModality(ctx, Modality{
		ID:        s.idGenerator(),
		Nome:      strings.TrimSpace(input.Nome),
		Descricao: strings.TrimSpace(input.Descricao),
		Ativo:     input.Ativo,
		CreatedAt: now,
		UpdatedAt: now,
	})
	err = mapPeopleRepoError(err)
	return
}

func (s *CatalogService) UpdateModality(ctx context.Context, principal Principal, modalityID string, input ModalityInput) (result Modality, err error) {
	if s == nil || s.modalities == nil {
		err = fmt.Errorf("modality repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateModality",
		"principal_id", principal.StaffID,
		"modality_id", modalityID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update modality", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "modality updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if err = requireNome(input.Nome); err != nil {
		return
	}

	var existing Modality
	existing, err = s.modalities.GetModality(ctx, modalityID)
	if err != nil {
		err = mapPeopleRepoError(err)
		return
	}

	existing.Nome = strings.TrimSpace(input.Nome)
	existing.Descricao = strings.TrimSpace(input.Descricao)
	existing.Ativo = input.Ativo
	existing.UpdatedAt = s.now()

	result, err = s.modalities.UpdateModality(ctx, existing)
	err = mapPeopleRepoError(err)
	return
}

func (s *CatalogService) GetModality(ctx context.Context, principal Principal, modalityID string) (Modality, error) {
	if s == nil || s.modalities == nil {
		return Modality{}, fmt.Errorf("modality repository not configured")
	}
	modality, err := s.modalities.GetModality(ctx, modalityID)
	return modality, mapPeopleRepoError(err)
}

func (s *CatalogService) ListModalities(ctx context.Context, principal Principal) ([]Modality, error) {
	if s == nil || s.modalities == nil {
		return nil, nil
	}
	modalities, err := s.modalities.ListModalities(ctx)
	if err != nil {
		return nil, mapPeopleRepoError(err)
	}
	sort.Slice(modalities, func(i, j int) bool {
		return lessByName(modalities[i].Nome, modalities[i].ID, modalities[j].Nome, modalities[j].ID)
	})
	return modalities, nil
}

func (s *CatalogService) DeleteModality(ctx context.Context, principal Principal, modalityID string) error {
	if s == nil || s.modalities == nil {
		return fmt.Errorf("modality repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteModality",
		"principal_id", principal.StaffID,
		"modality_id", modalityID,
	)
	if err := mapPeopleRepoError(s.modalities.DeleteModality(ctx, modalityID)); err != nil {
		logger.ErrorContext(ctx, "failed to delete modality", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "modality deleted")
	return nil
}

// --- billing plans ---

func (s *CatalogService) CreateBillingPlan(ctx context.Context, principal Principal, input BillingPlanInput) (result BillingPlan, err error) {
	if s == nil || s.billingPlans == nil {
		err = fmt.Errorf("billing plan repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateBillingPlan", "principal_id", principal.StaffID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create billing plan", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("billing_plan_id", result.ID).InfoContext(ctx, "billing plan created")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateBillingPlanInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	result, err = s.billingPlans.CreateBillingPlan(ctx, BillingPlan{
		ID:        s.idGenerator(),
		Nome:      strings.TrimSpace(input.Nome),
		Categoria: strings.TrimSpace(input.Categoria),
		Modo:      strings.TrimSpace(input.Modo),
		Valor:     input.Valor,
		Ativo:     input.Ativo,
		CreatedAt: now,
		UpdatedAt: now,
	})
	err = mapPeopleRepoError(err)
	return
}

func (s *CatalogService) UpdateBillingPlan(ctx context.Context, principal Principal, planID string, input BillingPlanInput) (result BillingPlan, err error) {
	if s == nil || s.billingPlans == nil {
		err = fmt.Errorf("billing plan repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateBillingPlan",
		"principal_id", principal.StaffID,
		"billing_plan_id", planID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update billing plan", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "billing plan updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}

	vErr := validateBillingPlanInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var existing BillingPlan
	existing, err = s.billingPlans.GetBillingPlan(ctx, planID)
	if err != nil {
		err = mapPeopleRepoError(err)
		return
	}

	existing.Nome = strings.TrimSpace(input.Nome)
	existing.Categoria = strings.TrimSpace(input.Categoria)
	existing.Modo = strings.TrimSpace(input.Modo)
	existing.Valor = input.Valor
	existing.Ativo = input.Ativo
	existing.UpdatedAt = s.now()

	result, err = s.billingPlans.UpdateBillingPlan(ctx, existing)
	err = mapPeopleRepoError(err)
	return
}

func (s *CatalogService) GetBillingPlan(ctx context.Context, principal Principal, planID string) (BillingPlan, error) {
	if s == nil || s.billingPlans == nil {
		return BillingPlan{}, fmt.Errorf("billing plan repository not configured")
	}
	plan, err := s.billingPlans.GetBillingPlan(ctx, planID)
	return plan, mapPeopleRepoError(err)
}

func (s *CatalogService) ListBillingPlans(ctx context.Context, principal Principal) ([]BillingPlan, error) {
	if s == nil || s.billingPlans == nil {
		return nil, nil
	}
	plans, err := s.billingPlans.ListBillingPlans(ctx)
	if err != nil {
		return nil, mapPeopleRepoError(err)
	}
	sort.Slice(plans, func(i, j int) bool {
		return lessByName(plans[i].Nome, plans[i].ID, plans[j].Nome, plans[j].ID)
	})
	return plans, nil
}

func (s *CatalogService) DeleteBillingPlan(ctx context.Context, principal Principal, planID string) error {
	if s == nil || s.billingPlans == nil {
		return fmt.Errorf("billing plan repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteBillingPlan",
		"principal_id", principal.StaffID,
		"billing_plan_id", planID,
	)
	if err := mapPeopleRepoError(s.billingPlans.DeleteBillingPlan(ctx, planID)); err != nil {
		logger.ErrorContext(ctx, "failed to delete billing plan", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "billing plan deleted")
	return nil
}

// --- lesson plans ---

func (s *CatalogService) CreateLessonPlan(ctx context.Context, principal Principal, input LessonPlanInput) (result LessonPlan, err error) {
	if s == nil || s.lessonPlans == nil {
		err = fmt.Errorf("lesson plan repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateLessonPlan", "principal_id", principal.StaffID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create lesson plan", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("lesson_plan_id", result.ID).InfoContext(ctx, "lesson plan created")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if err = requireNome(input.Nome); err != nil {
		return
	}

	now := s.now()
	result, err = s.lessonPlans.CreateLessonPlan(ctx, LessonPlan{
		ID:           s.idGenerator(),
		Nome:         strings.TrimSpace(input.Nome),
		Descricao:    strings.TrimSpace(input.Descricao),
		ModalidadeID: strings.TrimSpace(input.ModalidadeID),
		Ativo:        input.Ativo,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	err = mapPeopleRepoError(err)
	return
}

func (s *CatalogService) UpdateLessonPlan(ctx context.Context, principal Principal, planID string, input LessonPlanInput) (result LessonPlan, err error) {
	if s == nil || s.lessonPlans == nil {
		err = fmt.Errorf("lesson plan repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateLessonPlan",
		"principal_id", principal.StaffID,
		"lesson_plan_id", planID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update lesson plan", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "lesson plan updated")
	}()

	if !principal.IsAdmin {
		err = ErrUnauthorized
		return
	}
	if err = requireNome(input.Nome); err != nil {
		return
	}

	var existing LessonPlan
	existing, err = s.lessonPlans.GetLessonPlan(ctx, planID)
	if err != nil {
		err = mapPeopleRepoError(err)
		return
	}

	existing.Nome = strings.TrimSpace(input.Nome)
	existing.Descricao = strings.TrimSpace(input.Descricao)
	existing.ModalidadeID = strings.TrimSpace(input.ModalidadeID)
	existing.Ativo = input.Ativo
	existing.UpdatedAt = s.now()

	result, err = s.lessonPlans.UpdateLessonPlan(ctx, existing)
	err = mapPeopleRepoError(err)
	return
}

func (s *CatalogService) GetLessonPlan(ctx context.Context, principal Principal, planID string) (LessonPlan, error) {
	if s == nil || s.lessonPlans == nil {
		return LessonPlan{}, fmt.Errorf("lesson plan repository not configured")
	}
	plan, err := s.lessonPlans.GetLessonPlan(ctx, planID)
	return plan, mapPeopleRepoError(err)
}

func (s *CatalogService) ListLessonPlans(ctx context.Context, principal Principal) ([]LessonPlan, error) {
	if s == nil || s.lessonPlans == nil {
		return nil, nil
	}
	plans, err := s.lessonPlans.ListLessonPlans(ctx)
	if err != nil {
		return nil, mapPeopleRepoError(err)
	}
	sort.Slice(plans, func(i, j int) bool {
		return lessByName(plans[i].Nome, plans[i].ID, plans[j].Nome, plans[j].ID)
	})
	return plans, nil
}

func (s *CatalogService) DeleteLessonPlan(ctx context.Context, principal Principal, planID string) error {
	if s == nil || s.lessonPlans == nil {
		return fmt.Errorf("lesson plan repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "DeleteLessonPlan",
		"principal_id", principal.StaffID,
		"lesson_plan_id", planID,
	)
	if err := mapPeopleRepoError(s.lessonPlans.DeleteLessonPlan(ctx, planID)); err != nil {
		logger.ErrorContext(ctx, "failed to delete lesson plan", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "lesson plan deleted")
	return nil
}

// --- validation ---

func requireNome(nome string) error {
	if strings.TrimSpace(nome) == "" {
		vErr := &ValidationError{}
		vErr.add("nome", "nome é obrigatório")
		return vErr
	}
	return nil
}

func validateBillingPlanInput(input BillingPlanInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Nome) == "" {
		vErr.add("nome", "nome é obrigatório")
	}
	if input.Valor < 0 {
		vErr.add("valor", "valor não pode ser negativo")
	}
	switch strings.TrimSpace(input.Modo) {
	case "", "mensal", "avulsa", "pacote":
	default:
		vErr.add("modo", "modo deve ser mensal, avulsa ou pacote")
	}
	return vErr
}
