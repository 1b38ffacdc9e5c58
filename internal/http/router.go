package http

import (
	"net/http"
	"strings"
)

// RouterConfig carries the handlers the router dispatches to. Middleware is
// applied outermost-first: the first entry sees the request before any other.
type RouterConfig struct {
	Auth       *AuthHandler
	Agendas    *AgendaHandler
	Lessons    *LessonHandler
	Students   *StudentHandler
	Guardians  *GuardianHandler
	Staff      *StaffHandler
	Catalog    *CatalogHandler
	CEP        *CEPHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.Auth.CreateSession(w, r)
		default:
			methodNotAllowed(w, http.MethodPost)
		}
	})

	mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			cfg.Auth.DeleteCurrentSession(w, r)
		default:
			methodNotAllowed(w, http.MethodDelete)
		}
	})

	mux.HandleFunc("/sessions/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			cfg.Auth.DeleteSession(w, r, strings.TrimPrefix(r.URL.Path, "/sessions/"))
		default:
			methodNotAllowed(w, http.MethodDelete)
		}
	})

	mux.HandleFunc("/agendas", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Agendas.List(w, r)
		case http.MethodPost:
			cfg.Agendas.Create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})

	mux.HandleFunc("/agendas/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/agendas/")
		agendaID, subpath, _ := strings.Cut(rest, "/")

		switch {
		case subpath == "":
			switch r.Method {
			case http.MethodGet:
				cfg.Agendas.Get(w, r, agendaID)
			case http.MethodPut:
				cfg.Agendas.Update(w, r, agendaID)
			case http.MethodDelete:
				cfg.Agendas.Delete(w, r, agendaID)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		case subpath == "grade":
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Agendas.Grid(w, r, agendaID)
		case strings.HasPrefix(subpath, "dias/"):
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Agendas.Day(w, r, agendaID, strings.TrimPrefix(subpath, "dias/"))
		default:
			http.NotFound(w, r)
		}
	})

	mux.HandleFunc("/aulas", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Lessons.List(w, r)
		case http.MethodPost:
			cfg.Lessons.Create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})

	mux.HandleFunc("/aulas/", func(w http.ResponseWriter, r *http.Request) {
		lessonID := strings.TrimPrefix(r.URL.Path, "/aulas/")
		switch r.Method {
		case http.MethodGet:
			cfg.Lessons.Get(w, r, lessonID)
		case http.MethodPut:
			cfg.Lessons.Update(w, r, lessonID)
		case http.MethodDelete:
			cfg.Lessons.Delete(w, r, lessonID)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	})

	mux.HandleFunc("/alunos", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Students.List(w, r)
		case http.MethodPost:
			cfg.Students.Create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})

	mux.HandleFunc("/alunos/", func(w http.ResponseWriter, r *http.Request) {
		studentID := strings.TrimPrefix(r.URL.Path, "/alunos/")
		switch r.Method {
		case http.MethodGet:
			cfg.Students.Get(w, r, studentID)
		case http.MethodPut:
			cfg.Students.Update(w, r, studentID)
		case http.MethodDelete:
			cfg.Students.Delete(w, r, studentID)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	})

	mux.HandleFunc("/responsaveis", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Guardians.List(w, r)
		case http.MethodPost:
			cfg.Guardians.Create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})

	mux.HandleFunc("/responsaveis/", func(w http.ResponseWriter, r *http.Request) {
		guardianID := strings.TrimPrefix(r.URL.Path, "/responsaveis/")
		switch r.Method {
		case http.MethodGet:
			cfg.Guardians.Get(w, r, guardianID)
		case http.MethodPut:
			cfg.Guardians.Update(w, r, guardianID)
		case http.MethodDelete:
			cfg.Guardians.Delete(w, r, guardianID)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	})

	mux.HandleFunc("/equipe", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Staff.List(w, r)
		case http.MethodPost:
			cfg.Staff.Create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})

	mux.HandleFunc("/equipe/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/equipe/")
		staffID, subpath, _ := strings.Cut(rest, "/")

		switch {
		case subpath == "":
			switch r.Method {
			case http.MethodGet:
				cfg.Staff.Get(w, r, staffID)
			case http.MethodPut:
				cfg.Staff.Update(w, r, staffID)
			case http.MethodDelete:
				cfg.Staff.Delete(w, r, staffID)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		case subpath == "email":
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Staff.ChangeEmail(w, r, staffID)
		default:
			http.NotFound(w, r)
		}
	})

	registerCollection(mux, "/locais",
		cfg.Catalog.ListLocations, cfg.Catalog.CreateLocation,
		cfg.Catalog.GetLocation, cfg.Catalog.UpdateLocation, cfg.Catalog.DeleteLocation)
	registerCollection(mux, "/modalidades",
		cfg.Catalog.ListModalities, cfg.Catalog.CreateModality,
		cfg.Catalog.GetModality, cfg.Catalog.UpdateModality, cfg.Catalog.DeleteModality)
	registerCollection(mux, "/planos-cobranca",
		cfg.Catalog.ListBillingPlans, cfg.Catalog.CreateBillingPlan,
		cfg.Catalog.GetBillingPlan, cfg.Catalog.UpdateBillingPlan, cfg.Catalog.DeleteBillingPlan)
	registerCollection(mux, "/planos-aula",
		cfg.Catalog.ListLessonPlans, cfg.Catalog.CreateLessonPlan,
		cfg.Catalog.GetLessonPlan, cfg.Catalog.UpdateLessonPlan, cfg.Catalog.DeleteLessonPlan)

	mux.HandleFunc("/cep/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		cfg.CEP.Get(w, r, strings.TrimPrefix(r.URL.Path, "/cep/"))
	})

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		handler = cfg.Middleware[i](handler)
	}
	return handler
}

type itemHandlerFunc func(w http.ResponseWriter, r *http.Request, id string)

// registerCollection wires the standard list/create/get/update/delete routes
// for a flat resource rooted at base.
func registerCollection(mux *http.ServeMux, base string, list, create http.HandlerFunc, get, update, del itemHandlerFunc) {
	mux.HandleFunc(base, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			list(w, r)
		case http.MethodPost:
			create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
	})

	prefix := base + "/"
	mux.HandleFunc(prefix, func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, prefix)
		switch r.Method {
		case http.MethodGet:
			get(w, r, id)
		case http.MethodPut:
			update(w, r, id)
		case http.MethodDelete:
			del(w, r, id)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
