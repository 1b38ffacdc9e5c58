package persistence

import "context"

type AgendaRepository interface {
	CreateAgenda(ctx context.Context, agenda Agenda) error
	UpdateAgenda(ctx context.Context, agenda Agenda) error
	GetAgenda(ctx context.Context, id string) (Agenda, error)
	ListAgendas(ctx context.Context) ([]Agenda, error)
	DeleteAgenda(ctx context.Context, id string) error
}

// LessonFilter narrows ListLessons. Zero-valued fields are ignored. Date
// bounds are civil dates and inclusive; FromDate only applies together with
// RepetirID and selects the occurrence and everything after it.
type LessonFilter struct {
	Date      string
	DateFrom  string
	DateTo    string
	AgendaID  string
	RepetirID string
	FromDate  string
}

type LessonRepository interface {
	CreateLesson(ctx context.Context, lesson Lesson) error
	UpdateLesson(ctx context.Context, lesson Lesson) error
	GetLesson(ctx context.Context, id string) (Lesson, error)
	ListLessons(ctx context.Context, filter LessonFilter) ([]Lesson, error)
	DeleteLesson(ctx context.Context, id string) error
}

type StudentRepository interface {
	CreateStudent(ctx context.Context, student Student) error
	UpdateStudent(ctx context.Context, student Student) error
	GetStudent(ctx context.Context, id string) (Student, error)
	ListStudents(ctx context.Context) ([]Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

type GuardianRepository interface {
	CreateGuardian(ctx context.Context, guardian Guardian) error
	UpdateGuardian(ctx context.Context, guardian Guardian) error
	GetGuardian(ctx context.Context, id string) (Guardian, error)
	ListGuardians(ctx context.Context) ([]Guardian, error)
	DeleteGuardian(ctx context.Context, id string) error
}

type StaffRepository interface {
	CreateStaff(ctx context.Context, staff StaffMember) error
	UpdateStaff(ctx context.Context, staff StaffMember) error
	GetStaff(ctx context.Context, id string) (StaffMember, error)
	GetStaffByCPF(ctx context.Context, cpf string) (StaffMember, error)
	ListStaff(ctx context.Context) ([]StaffMember, error)
	DeleteStaff(ctx context.Context, id string) error
}

type LocationRepository interface {
	CreateLocation(ctx context.Context, location Location) error
	UpdateLocation(ctx context.Context, location Location) error
	GetLocation(ctx context.Context, id string) (Location, error)
	ListLocations(ctx context.Context) ([]Location, error)
	DeleteLocation(ctx context.Context, id string) error
}

type ModalityRepository interface {
	CreateModality(ctx context.Context, modality Modality) error
	UpdateModality(ctx context.Context, modality Modality) error
	GetModality(ctx context.Context, id string) (Modality, error)
	ListModalities(ctx context.Context) ([]Modality, error)
	DeleteModality(ctx context.Context, id string) error
}

type BillingPlanRepository interface {
	CreateBillingPlan(ctx context.Context, plan BillingPlan) error
	UpdateBillingPlan(ctx context.Context, plan BillingPlan) error
	GetBillingPlan(ctx context.Context, id string) (BillingPlan, error)
	ListBillingPlans(ctx context.Context) ([]BillingPlan, error)
	DeleteBillingPlan(ctx context.Context, id string) error
}

type LessonPlanRepository interface {
	CreateLessonPlan(ctx context.Context, plan LessonPlan) error
	UpdateLessonPlan(ctx context.Context, plan LessonPlan) error
	GetLessonPlan(ctx context.Context, id string) (LessonPlan, error)
	ListLessonPlans(ctx context.Context) ([]LessonPlan, error)
	DeleteLessonPlan(ctx context.Context, id string) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}
