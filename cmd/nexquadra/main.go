package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/agenda"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/application"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/config"
	httptransport "github.com/metodoleandrolobo/nexquadra-sub000/internal/http"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/logging"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/persistence/sqlite"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/recurrence"
	"github.com/metodoleandrolobo/nexquadra-sub000/internal/viacep"
)

func main() {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now
	location := cfg.Location()

	agendaRepo := newAgendaRepositoryAdapter(sqlite.NewAgendaRepository(pool))
	lessonRepo := newLessonRepositoryAdapter(sqlite.NewLessonRepository(pool))
	peopleRepo := sqlite.NewPeopleRepository(pool)
	catalogRepo := sqlite.NewCatalogRepository(pool)
	sessionRepo := newSessionRepositoryAdapter(sqlite.NewSessionRepository(pool, now))

	students := newStudentRepositoryAdapter(peopleRepo)
	guardians := newGuardianRepositoryAdapter(peopleRepo)
	staff := newStaffRepositoryAdapter(peopleRepo)
	catalog := newCatalogRepositoryAdapter(catalogRepo)
	names := newNameDirectoryAdapter(peopleRepo, catalogRepo)
	credentials := newCredentialStoreAdapter(peopleRepo)

	planner := recurrence.NewPlanner(location, cfg.HorizonWeeks)

	agendaService := application.NewAgendaService(agendaRepo, lessonRepo, idGenerator, now, location, logger)
	lessonService := application.NewLessonService(lessonRepo, agendaRepo, names, planner, agendaService.Slots(), idGenerator, now, location, cfg.InitialSiblings, logger)
	peopleService := application.NewPeopleService(students, guardians, staff, nil, idGenerator, now, logger)
	catalogService := application.NewCatalogService(catalog, catalog, catalog, catalog, idGenerator, now, logger)
	authService := application.NewAuthService(credentials, sessionRepo, tokenGenerator, now, cfg.SessionTTL, logger)

	cepClient := viacep.NewClient(cfg.ViaCEPBaseURL)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		Agendas:   httptransport.NewAgendaHandler(agendaService, logger),
		Lessons:   httptransport.NewLessonHandler(lessonService, logger),
		Students:  httptransport.NewStudentHandler(peopleService, logger),
		Guardians: httptransport.NewGuardianHandler(peopleService, logger),
		Staff:     httptransport.NewStaffHandler(peopleService, logger),
		Catalog:   httptransport.NewCatalogHandler(catalogService, logger),
		CEP:       httptransport.NewCEPHandler(cepClient, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireSession(authService, logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("nexquadra API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// mapNotFound rewrites the persistence sentinel onto the application one.
// The agenda, lesson and auth services compare against application.ErrNotFound
// directly; the people and catalog services map persistence errors themselves.
func mapNotFound(err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return application.ErrNotFound
	}
	return err
}

type agendaRepositoryAdapter struct {
	repo *sqlite.AgendaRepository
}

func newAgendaRepositoryAdapter(repo *sqlite.AgendaRepository) *agendaRepositoryAdapter {
	return &agendaRepositoryAdapter{repo: repo}
}

func (a *agendaRepositoryAdapter) CreateAgenda(ctx context.Context, record application.Agenda) (application.Agenda, error) {
	if err := a.repo.CreateAgenda(ctx, toPersistenceAgenda(record)); err != nil {
		return application.Agenda{}, mapNotFound(err)
	}
	return a.GetAgenda(ctx, record.ID)
}

func (a *agendaRepositoryAdapter) UpdateAgenda(ctx context.Context, record application.Agenda) (application.Agenda, error) {
	if err := a.repo.UpdateAgenda(ctx, toPersistenceAgenda(record)); err != nil {
		return application.Agenda{}, mapNotFound(err)
	}
	return a.GetAgenda(ctx, record.ID)
}

func (a *agendaRepositoryAdapter) GetAgenda(ctx context.Context, id string) (application.Agenda, error) {
	stored, err := a.repo.GetAgenda(ctx, id)
	if err != nil {
		return application.Agenda{}, mapNotFound(err)
	}
	return toApplicationAgenda(stored), nil
}

func (a *agendaRepositoryAdapter) ListAgendas(ctx context.Context) ([]application.Agenda, error) {
	models, err := a.repo.ListAgendas(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	agendas := make([]application.Agenda, 0, len(models))
	for _, model := range models {
		agendas = append(agendas, toApplicationAgenda(model))
	}
	return agendas, nil
}

func (a *agendaRepositoryAdapter) DeleteAgenda(ctx context.Context, id string) error {
	return mapNotFound(a.repo.DeleteAgenda(ctx, id))
}

type lessonRepositoryAdapter struct {
	repo *sqlite.LessonRepository
}

func newLessonRepositoryAdapter(repo *sqlite.LessonRepository) *lessonRepositoryAdapter {
	return &lessonRepositoryAdapter{repo: repo}
}

func (a *lessonRepositoryAdapter) CreateLesson(ctx context.Context, lesson application.Lesson) (application.Lesson, error) {
	if err := a.repo.CreateLesson(ctx, toPersistenceLesson(lesson)); err != nil {
		return application.Lesson{}, mapNotFound(err)
	}
	return a.GetLesson(ctx, lesson.ID)
}

func (a *lessonRepositoryAdapter) UpdateLesson(ctx context.Context, lesson application.Lesson) (application.Lesson, error) {
	if err := a.repo.UpdateLesson(ctx, toPersistenceLesson(lesson)); err != nil {
		return application.Lesson{}, mapNotFound(err)
	}
	return a.GetLesson(ctx, lesson.ID)
}

func (a *lessonRepositoryAdapter) GetLesson(ctx context.Context, id string) (application.Lesson, error) {
	stored, err := a.repo.GetLesson(ctx, id)
	if err != nil {
		return application.Lesson{}, mapNotFound(err)
	}
	return toApplicationLesson(stored), nil
}

func (a *lessonRepositoryAdapter) ListLessons(ctx context.Context, filter application.LessonFilter) ([]application.Lesson, error) {
	models, err := a.repo.ListLessons(ctx, persistence.LessonFilter{
		Date:      filter.Date,
		DateFrom:  filter.DateFrom,
		DateTo:    filter.DateTo,
		AgendaID:  filter.AgendaID,
		RepetirID: filter.RepetirID,
		FromDate:  filter.FromDate,
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	lessons := make([]application.Lesson, 0, len(models))
	for _, model := range models {
		lessons = append(lessons, toApplicationLesson(model))
	}
	return lessons, nil
}

func (a *lessonRepositoryAdapter) DeleteLesson(ctx context.Context, id string) error {
	return mapNotFound(a.repo.DeleteLesson(ctx, id))
}

// ListLessonsByDate serves the agenda day view.
func (a *lessonRepositoryAdapter) ListLessonsByDate(ctx context.Context, date string) ([]application.Lesson, error) {
	return a.ListLessons(ctx, application.LessonFilter{Date: date})
}

type studentRepositoryAdapter struct {
	repo *sqlite.PeopleRepository
}

func newStudentRepositoryAdapter(repo *sqlite.PeopleRepository) *studentRepositoryAdapter {
	return &studentRepositoryAdapter{repo: repo}
}

func (a *studentRepositoryAdapter) CreateStudent(ctx context.Context, student application.Student) (application.Student, error) {
	if err := a.repo.CreateStudent(ctx, toPersistenceStudent(student)); err != nil {
		return application.Student{}, err
	}
	stored, err := a.repo.GetStudent(ctx, student.ID)
	if err != nil {
		return application.Student{}, err
	}
	return toApplicationStudent(stored), nil
}

func (a *studentRepositoryAdapter) UpdateStudent(ctx context.Context, student application.Student) (application.Student, error) {
	if err := a.repo.UpdateStudent(ctx, toPersistenceStudent(student)); err != nil {
		return application.Student{}, err
	}
	stored, err := a.repo.GetStudent(ctx, student.ID)
	if err != nil {
		return application.Student{}, err
	}
	return toApplicationStudent(stored), nil
}

func (a *studentRepositoryAdapter) GetStudent(ctx context.Context, id string) (application.Student, error) {
	stored, err := a.repo.GetStudent(ctx, id)
	if err != nil {
		return application.Student{}, err
	}
	return toApplicationStudent(stored), nil
}

func (a *studentRepositoryAdapter) ListStudents(ctx context.Context) ([]application.Student, error) {
	models, err := a.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	students := make([]application.Student, 0, len(models))
	for _, model := range models {
		students = append(students, toApplicationStudent(model))
	}
	return students, nil
}

func (a *studentRepositoryAdapter) DeleteStudent(ctx context.Context, id string) error {
	return a.repo.DeleteStudent(ctx, id)
}

type guardianRepositoryAdapter struct {
	repo *sqlite.PeopleRepository
}

func newGuardianRepositoryAdapter(repo *sqlite.PeopleRepository) *guardianRepositoryAdapter {
	return &guardianRepositoryAdapter{repo: repo}
}

func (a *guardianRepositoryAdapter) CreateGuardian(ctx context.Context, guardian application.Guardian) (application.Guardian, error) {
	if err := a.repo.CreateGuardian(ctx, toPersistenceGuardian(guardian)); err != nil {
		return application.Guardian{}, err
	}
	stored, err := a.repo.GetGuardian(ctx, guardian.ID)
	if err != nil {
		return application.Guardian{}, err
	}
	return toApplicationGuardian(stored), nil
}

func (a *guardianRepositoryAdapter) UpdateGuardian(ctx context.Context, guardian application.Guardian) (application.Guardian, error) {
	if err := a.repo.UpdateGuardian(ctx, toPersistenceGuardian(guardian)); err != nil {
		return application.Guardian{}, err
	}
	stored, err := a.repo.GetGuardian(ctx, guardian.ID)
	if err != nil {
		return application.Guardian{}, err
	}
	return toApplicationGuardian(stored), nil
}

func (a *guardianRepositoryAdapter) GetGuardian(ctx context.Context, id string) (application.Guardian, error) {
	stored, err := a.repo.GetGuardian(ctx, id)
	if err != nil {
		return application.Guardian{}, err
	}
	return toApplicationGuardian(stored), nil
}

func (a *guardianRepositoryAdapter) ListGuardians(ctx context.Context) ([]application.Guardian, error) {
	models, err := a.repo.ListGuardians(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	guardians := make([]application.Guardian, 0, len(models))
	for _, model := range models {
		guardians = append(guardians, toApplicationGuardian(model))
	}
	return guardians, nil
}

func (a *guardianRepositoryAdapter) DeleteGuardian(ctx context.Context, id string) error {
	return a.repo.DeleteGuardian(ctx, id)
}

type staffRepositoryAdapter struct {
	repo *sqlite.PeopleRepository
}

func newStaffRepositoryAdapter(repo *sqlite.PeopleRepository) *staffRepositoryAdapter {
	return &staffRepositoryAdapter{repo: repo}
}

func (a *staffRepositoryAdapter) CreateStaff(ctx context.Context, member application.StaffMember, passwordHash string) (application.StaffMember, error) {
	if err := a.repo.CreateStaff(ctx, toPersistenceStaff(member, passwordHash)); err != nil {
		return application.StaffMember{}, err
	}
	stored, err := a.repo.GetStaff(ctx, member.ID)
	if err != nil {
		return application.StaffMember{}, err
	}
	return toApplicationStaff(stored), nil
}

// UpdateStaff writes the member; an empty passwordHash keeps the stored
// credential untouched.
func (a *staffRepositoryAdapter) UpdateStaff(ctx context.Context, member application.StaffMember, passwordHash string) (application.StaffMember, error) {
	if passwordHash == "" {
		current, err := a.repo.GetStaff(ctx, member.ID)
		if err != nil {
			return application.StaffMember{}, err
		}
		passwordHash = current.PasswordHash
	}
	if err := a.repo.UpdateStaff(ctx, toPersistenceStaff(member, passwordHash)); err != nil {
		return application.StaffMember{}, err
	}
	stored, err := a.repo.GetStaff(ctx, member.ID)
	if err != nil {
		return application.StaffMember{}, err
	}
	return toApplicationStaff(stored), nil
}

func (a *staffRepositoryAdapter) GetStaff(ctx context.Context, id string) (application.StaffMember, error) {
	stored, err := a.repo.GetStaff(ctx, id)
	if err != nil {
		return application.StaffMember{}, err
	}
	return toApplicationStaff(stored), nil
}

func (a *staffRepositoryAdapter) ListStaff(ctx context.Context) ([]application.StaffMember, error) {
	models, err := a.repo.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	members := make([]application.StaffMember, 0, len(models))
	for _, model := range models {
		members = append(members, toApplicationStaff(model))
	}
	return members, nil
}

func (a *staffRepositoryAdapter) DeleteStaff(ctx context.Context, id string) error {
	return a.repo.DeleteStaff(ctx, id)
}

// catalogRepositoryAdapter serves all four catalog interfaces from the single
// SQLite catalog repository.
type catalogRepositoryAdapter struct {
	repo *sqlite.CatalogRepository
}

func newCatalogRepositoryAdapter(repo *sqlite.CatalogRepository) *catalogRepositoryAdapter {
	return &catalogRepositoryAdapter{repo: repo}
}

func (a *catalogRepositoryAdapter) CreateLocation(ctx context.Context, location application.Location) (application.Location, error) {
	if err := a.repo.CreateLocation(ctx, persistence.Location(location)); err != nil {
		return application.Location{}, err
	}
	return a.GetLocation(ctx, location.ID)
}

func (a *catalogRepositoryAdapter) UpdateLocation(ctx context.Context, location application.Location) (application.Location, error) {
	if err := a.repo.UpdateLocation(ctx, persistence.Location(location)); err != nil {
		return application.Location{}, err
	}
	return a.GetLocation(ctx, location.ID)
}

func (a *catalogRepositoryAdapter) GetLocation(ctx context.Context, id string) (application.Location, error) {
	stored, err := a.repo.GetLocation(ctx, id)
	if err != nil {
		return application.Location{}, err
	}
	return application.Location(stored), nil
}

func (a *catalogRepositoryAdapter) ListLocations(ctx context.Context) ([]application.Location, error) {
	models, err := a.repo.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	locations := make([]application.Location, 0, len(models))
	for _, model := range models {
		locations = append(locations, application.Location(model))
	}
	return locations, nil
}

func (a *catalogRepositoryAdapter) DeleteLocation(ctx context.Context, id string) error {
	return a.repo.DeleteLocation(ctx, id)
}

func (a *catalogRepositoryAdapter) CreateModality(ctx context.Context, modality application.Modality) (application.Modality, error) {
	if err := a.repo.CreateModality(ctx, persistence.Modality(modality)); err != nil {
		return application.Modality{}, err
	}
	return a.GetModality(ctx, modality.ID)
}

func (a *catalogRepositoryAdapter) UpdateModality(ctx context.Context, modality application.Modality) (application.Modality, error) {
	if err := a.repo.UpdateModality(ctx, persistence.Modality(modality)); err != nil {
		return application.Modality{}, err
	}
	return a.GetModality(ctx, modality.ID)
}

func (a *catalogRepositoryAdapter) GetModality(ctx context.Context, id string) (application.Modality, error) {
	stored, err := a.repo.GetModality(ctx, id)
	if err != nil {
		return application.Modality{}, err
	}
	return application.Modality(stored), nil
}

func (a *catalogRepositoryAdapter) ListModalities(ctx context.Context) ([]application.Modality, error) {
	models, err := a.repo.ListModalities(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	modalities := make([]application.Modality, 0, len(models))
	for _, model := range models {
		modalities = append(modalities, application.Modality(model))
	}
	return modalities, nil
}

func (a *catalogRepositoryAdapter) DeleteModality(ctx context.Context, id string) error {
	return a.repo.DeleteModality(ctx, id)
}

func (a *catalogRepositoryAdapter) CreateBillingPlan(ctx context.Context, plan application.BillingPlan) (application.BillingPlan, error) {
	if err := a.repo.CreateBillingPlan(ctx, persistence.BillingPlan(plan)); err != nil {
		return application.BillingPlan{}, err
	}
	return a.GetBillingPlan(ctx, plan.ID)
}

func (a *catalogRepositoryAdapter) UpdateBillingPlan(ctx context.Context, plan application.BillingPlan) (application.BillingPlan, error) {
	if err := a.repo.UpdateBillingPlan(ctx, persistence.BillingPlan(plan)); err != nil {
		return application.BillingPlan{}, err
	}
	return a.GetBillingPlan(ctx, plan.ID)
}

func (a *catalogRepositoryAdapter) GetBillingPlan(ctx context.Context, id string) (application.BillingPlan, error) {
	stored, err := a.repo.GetBillingPlan(ctx, id)
	if err != nil {
		return application.BillingPlan{}, err
	}
	return application.BillingPlan(stored), nil
}

func (a *catalogRepositoryAdapter) ListBillingPlans(ctx context.Context) ([]application.BillingPlan, error) {
	models, err := a.repo.ListBillingPlans(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	plans := make([]application.BillingPlan, 0, len(models))
	for _, model := range models {
		plans = append(plans, application.BillingPlan(model))
	}
	return plans, nil
}

func (a *catalogRepositoryAdapter) DeleteBillingPlan(ctx context.Context, id string) error {
	return a.repo.DeleteBillingPlan(ctx, id)
}

func (a *catalogRepositoryAdapter) CreateLessonPlan(ctx context.Context, plan application.LessonPlan) (application.LessonPlan, error) {
	if err := a.repo.CreateLessonPlan(ctx, persistence.LessonPlan(plan)); err != nil {
		return application.LessonPlan{}, err
	}
	return a.GetLessonPlan(ctx, plan.ID)
}

func (a *catalogRepositoryAdapter) UpdateLessonPlan(ctx context.Context, plan application.LessonPlan) (application.LessonPlan, error) {
	if err := a.repo.UpdateLessonPlan(ctx, persistence.LessonPlan(plan)); err != nil {
		return application.LessonPlan{}, err
	}
	return a.GetLessonPlan(ctx, plan.ID)
}

func (a *catalogRepositoryAdapter) GetLessonPlan(ctx context.Context, id string) (application.LessonPlan, error) {
	stored, err := a.repo.GetLessonPlan(ctx, id)
	if err != nil {
		return application.LessonPlan{}, err
	}
	return application.LessonPlan(stored), nil
}

func (a *catalogRepositoryAdapter) ListLessonPlans(ctx context.Context) ([]application.LessonPlan, error) {
	models, err := a.repo.ListLessonPlans(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	plans := make([]application.LessonPlan, 0, len(models))
	for _, model := range models {
		plans = append(plans, application.LessonPlan(model))
	}
	return plans, nil
}

func (a *catalogRepositoryAdapter) DeleteLessonPlan(ctx context.Context, id string) error {
	return a.repo.DeleteLessonPlan(ctx, id)
}

type nameDirectoryAdapter struct {
	people  *sqlite.PeopleRepository
	catalog *sqlite.CatalogRepository
}

func newNameDirectoryAdapter(people *sqlite.PeopleRepository, catalog *sqlite.CatalogRepository) *nameDirectoryAdapter {
	return &nameDirectoryAdapter{people: people, catalog: catalog}
}

func (a *nameDirectoryAdapter) StaffName(ctx context.Context, id string) (string, error) {
	stored, err := a.people.GetStaff(ctx, id)
	if err != nil {
		return "", mapNotFound(err)
	}
	return stored.Nome, nil
}

func (a *nameDirectoryAdapter) LocationName(ctx context.Context, id string) (string, error) {
	stored, err := a.catalog.GetLocation(ctx, id)
	if err != nil {
		return "", mapNotFound(err)
	}
	return stored.Nome, nil
}

func (a *nameDirectoryAdapter) ModalityName(ctx context.Context, id string) (string, error) {
	stored, err := a.catalog.GetModality(ctx, id)
	if err != nil {
		return "", mapNotFound(err)
	}
	return stored.Nome, nil
}

func (a *nameDirectoryAdapter) StudentName(ctx context.Context, id string) (string, error) {
	stored, err := a.people.GetStudent(ctx, id)
	if err != nil {
		return "", mapNotFound(err)
	}
	return stored.Nome, nil
}

type sessionRepositoryAdapter struct {
	repo *sqlite.SessionRepository
}

func newSessionRepositoryAdapter(repo *sqlite.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	if err := a.repo.CreateSession(ctx, toPersistenceSession(session)); err != nil {
		return application.Session{}, err
	}
	return session, nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapNotFound(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string) error {
	return mapNotFound(a.repo.RevokeSession(ctx, token))
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	return a.repo.DeleteExpiredSessions(ctx)
}

type credentialStoreAdapter struct {
	repo *sqlite.PeopleRepository
}

func newCredentialStoreAdapter(repo *sqlite.PeopleRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetStaffCredentialsByCPF(ctx context.Context, cpf string) (application.StaffCredentials, error) {
	stored, err := a.repo.GetStaffByCPF(ctx, cpf)
	if err != nil {
		return application.StaffCredentials{}, mapNotFound(err)
	}
	return application.StaffCredentials{
		Staff:        toApplicationStaff(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *credentialStoreAdapter) GetStaff(ctx context.Context, id string) (application.StaffMember, error) {
	stored, err := a.repo.GetStaff(ctx, id)
	if err != nil {
		return application.StaffMember{}, mapNotFound(err)
	}
	return toApplicationStaff(stored), nil
}

func toPersistenceAgenda(record application.Agenda) persistence.Agenda {
	model := persistence.Agenda{
		ID:               record.ID,
		Nome:             record.Nome,
		Tipo:             string(record.Tipo),
		Publica:          record.Publica,
		Ativa:            record.Ativa,
		ProfessorID:      record.Fixa.ProfessorID,
		LocalID:          record.Fixa.LocalID,
		ModalidadeID:     record.Fixa.ModalidadeID,
		Inicio:           record.Config.Start,
		Fim:              record.Config.End,
		IntervaloMinutos: record.Config.SlotMinutes,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}
	for _, day := range record.Config.Weekdays {
		model.DiasSemana = append(model.DiasSemana, int(day))
	}
	for _, day := range record.Config.Days {
		model.Dias = append(model.Dias, persistence.AgendaDia{
			Ativo:            day.Active,
			Inicio:           day.Start,
			Fim:              day.End,
			IntervaloMinutos: day.SlotMinutes,
		})
	}
	return model
}

func toApplicationAgenda(model persistence.Agenda) application.Agenda {
	record := application.Agenda{
		ID:      model.ID,
		Nome:    model.Nome,
		Tipo:    application.AgendaKind(model.Tipo),
		Publica: model.Publica,
		Ativa:   model.Ativa,
		Fixa: agenda.Assignment{
			ProfessorID:  model.ProfessorID,
			LocalID:      model.LocalID,
			ModalidadeID: model.ModalidadeID,
		},
		Config: agenda.WeeklyConfig{
			Start:       model.Inicio,
			End:         model.Fim,
			SlotMinutes: model.IntervaloMinutos,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	for _, day := range model.DiasSemana {
		record.Config.Weekdays = append(record.Config.Weekdays, time.Weekday(day))
	}
	for _, day := range model.Dias {
		record.Config.Days = append(record.Config.Days, agenda.DayWindow{
			Active:      day.Ativo,
			Start:       day.Inicio,
			End:         day.Fim,
			SlotMinutes: day.IntervaloMinutos,
		})
	}
	return record
}

func toPersistenceLesson(lesson application.Lesson) persistence.Lesson {
	return persistence.Lesson{
		ID:                lesson.ID,
		Data:              lesson.Data,
		Inicio:            lesson.Inicio,
		Fim:               lesson.Fim,
		AgendaID:          lesson.AgendaID,
		ProfessorID:       lesson.Atribuicao.ProfessorID,
		LocalID:           lesson.Atribuicao.LocalID,
		ModalidadeID:      lesson.Atribuicao.ModalidadeID,
		ProfessorNome:     lesson.ProfessorNome,
		LocalNome:         lesson.LocalNome,
		ModalidadeNome:    lesson.ModalidadeNome,
		AlunoIDs:          append([]string(nil), lesson.AlunoIDs...),
		AlunoNomes:        append([]string(nil), lesson.AlunoNomes...),
		TipoTurma:         string(lesson.TipoTurma),
		Capacidade:        lesson.Capacidade,
		Repetir:           lesson.Repetir,
		RepetirID:         lesson.RepetirID,
		CobrancaCategoria: lesson.Cobranca.Categoria,
		CobrancaModo:      lesson.Cobranca.Modo,
		CobrancaValor:     lesson.Cobranca.Valor,
		Atividade:         lesson.Atividade,
		Observacoes:       lesson.Observacoes,
		CreatedAt:         lesson.CreatedAt,
		UpdatedAt:         lesson.UpdatedAt,
	}
}

func toApplicationLesson(model persistence.Lesson) application.Lesson {
	return application.Lesson{
		ID:       model.ID,
		Data:     model.Data,
		Inicio:   model.Inicio,
		Fim:      model.Fim,
		AgendaID: model.AgendaID,
		Atribuicao: agenda.Assignment{
			ProfessorID:  model.ProfessorID,
			LocalID:      model.LocalID,
			ModalidadeID: model.ModalidadeID,
		},
		ProfessorNome:  model.ProfessorNome,
		LocalNome:      model.LocalNome,
		ModalidadeNome: model.ModalidadeNome,
		AlunoIDs:       append([]string(nil), model.AlunoIDs...),
		AlunoNomes:     append([]string(nil), model.AlunoNomes...),
		TipoTurma:      application.TurmaKind(model.TipoTurma),
		Capacidade:     model.Capacidade,
		Repetir:        model.Repetir,
		RepetirID:      model.RepetirID,
		Cobranca: application.Cobranca{
			Categoria: model.CobrancaCategoria,
			Modo:      model.CobrancaModo,
			Valor:     model.CobrancaValor,
		},
		Atividade:   model.Atividade,
		Observacoes: model.Observacoes,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceStudent(student application.Student) persistence.Student {
	return persistence.Student{
		ID:            student.ID,
		Nome:          student.Nome,
		Email:         student.Email,
		CPF:           student.CPF,
		Telefone:      student.Telefone,
		DataNasc:      student.DataNasc,
		ResponsavelID: student.ResponsavelID,
		Endereco:      toPersistenceAddress(student.Endereco),
		Ativo:         student.Ativo,
		CreatedAt:     student.CreatedAt,
		UpdatedAt:     student.UpdatedAt,
	}
}

func toApplicationStudent(model persistence.Student) application.Student {
	return application.Student{
		ID:            model.ID,
		Nome:          model.Nome,
		Email:         model.Email,
		CPF:           model.CPF,
		Telefone:      model.Telefone,
		DataNasc:      model.DataNasc,
		ResponsavelID: model.ResponsavelID,
		Endereco:      toApplicationAddress(model.Endereco),
		Ativo:         model.Ativo,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toPersistenceGuardian(guardian application.Guardian) persistence.Guardian {
	return persistence.Guardian{
		ID:        guardian.ID,
		Nome:      guardian.Nome,
		Email:     guardian.Email,
		CPF:       guardian.CPF,
		Telefone:  guardian.Telefone,
		Endereco:  toPersistenceAddress(guardian.Endereco),
		Ativo:     guardian.Ativo,
		CreatedAt: guardian.CreatedAt,
		UpdatedAt: guardian.UpdatedAt,
	}
}

func toApplicationGuardian(model persistence.Guardian) application.Guardian {
	return application.Guardian{
		ID:        model.ID,
		Nome:      model.Nome,
		Email:     model.Email,
		CPF:       model.CPF,
		Telefone:  model.Telefone,
		Endereco:  toApplicationAddress(model.Endereco),
		Ativo:     model.Ativo,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceStaff(member application.StaffMember, passwordHash string) persistence.StaffMember {
	return persistence.StaffMember{
		ID:           member.ID,
		Nome:         member.Nome,
		Email:        member.Email,
		CPF:          member.CPF,
		Telefone:     member.Telefone,
		Funcao:       member.Funcao,
		Admin:        member.Admin,
		Ativo:        member.Ativo,
		PasswordHash: passwordHash,
		CreatedAt:    member.CreatedAt,
		UpdatedAt:    member.UpdatedAt,
	}
}

func toApplicationStaff(model persistence.StaffMember) application.StaffMember {
	return application.StaffMember{
		ID:            model.ID,
		Nome:          model.Nome,
		Email:         model.Email,
		CPF:           model.CPF,
		Telefone:      model.Telefone,
		Funcao:        model.Funcao,
		Admin:         model.Admin,
		Ativo:         model.Ativo,
		HasCredential: model.PasswordHash != "",
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toPersistenceAddress(address application.Address) persistence.Address {
	return persistence.Address{
		CEP:         address.CEP,
		Logradouro:  address.Logradouro,
		Bairro:      address.Bairro,
		Cidade:      address.Cidade,
		UF:          address.UF,
		Complemento: address.Complemento,
	}
}

func toApplicationAddress(model persistence.Address) application.Address {
	return application.Address{
		CEP:         model.CEP,
		Logradouro:  model.Logradouro,
		Bairro:      model.Bairro,
		Cidade:      model.Cidade,
		UF:          model.UF,
		Complemento: model.Complemento,
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		Token:     session.Token,
		StaffID:   session.StaffID,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		Token:     model.Token,
		StaffID:   model.StaffID,
		CreatedAt: model.CreatedAt,
		ExpiresAt: model.ExpiresAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
