package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/account-service/internal/application/account"
	"github.com/baechuer/account-service/internal/domain"
	"github.com/baechuer/account-service/internal/transport/http/dto"
	"github.com/baechuer/account-service/internal/transport/http/middleware"
	"github.com/baechuer/account-service/internal/transport/http/response"
)

// Me handles GET /user/me.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	u, err := h.svc.Me(r.Context(), claims.Username)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewUserResponse(u))
}

// ListUsers handles GET /users?skip=&limit=.
func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q, err := dto.ParseListQuery(r.URL.Query())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	users, err := h.svc.ListUsers(r.Context(), q.Skip, q.Limit)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.UserListResponse{
		Items: dto.NewUserResponses(users),
		Skip:  q.Skip,
		Limit: account.PageLimit(q.Limit),
	})
}

// GetUser handles GET /users/{id}.
func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewUserResponse(u))
}

// ListAllUsers handles GET /adminsonly.
func (h *AccountHandler) ListAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListAllUsers(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewAdminUserResponses(users))
}
