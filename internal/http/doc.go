// Package http exposes the admin panel's REST API.
//
// Every route except the login itself requires a session token, sent either
// as an Authorization Bearer header or in the session cookie:
//
//	POST   /sessions                      login (CPF + senha)
//	DELETE /sessions/current              logout
//	DELETE /sessions/{token}              force revoke (admin)
//
//	GET    /agendas                       list agendas
//	POST   /agendas                       create an agenda
//	GET    /agendas/{id}                  fetch an agenda
//	PUT    /agendas/{id}                  update an agenda
//	DELETE /agendas/{id}                  delete an agenda
//	GET    /agendas/{id}/grade            weekly slot grid
//	GET    /agendas/{id}/dias/{data}      slot occupancy for one day
//
//	GET    /aulas                         list lessons (?periodo&referencia&agendaId)
//	POST   /aulas                         create a lesson (or a recurring series)
//	GET    /aulas/{id}                    fetch a lesson
//	PUT    /aulas/{id}                    update a lesson (?modo)
//	DELETE /aulas/{id}                    delete a lesson (?modo)
//
//	/alunos, /responsaveis, /equipe       people CRUD; PUT /equipe/{id}/email
//	/locais, /modalidades                 court and modality CRUD
//	/planos-cobranca, /planos-aula        billing and lesson plan CRUD
//
//	GET    /cep/{codigo}                  ViaCEP address autofill
//
// Handlers only decode, validate and translate; all business rules live in
// the application services. Error payloads carry pt-BR messages and, for
// validation failures, a field-to-message map keyed by the json field names.
package http
