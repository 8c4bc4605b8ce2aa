package http_handlers

import (
	"github.com/baechuer/account-service/internal/application/account"
)

// AccountHandler serves registration, verification, session and user
// directory endpoints.
type AccountHandler struct {
	svc           *account.Service
	secureCookies bool
}

func NewAccountHandler(svc *account.Service, secureCookies bool) *AccountHandler {
	return &AccountHandler{
		svc:           svc,
		secureCookies: secureCookies,
	}
}
