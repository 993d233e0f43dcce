package api

import "github.com/yanoteapp/yanote-server/internal/service"

// Services bundles the application services used by the handlers.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Note    *service.NoteService
}
