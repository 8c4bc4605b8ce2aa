package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/baechuer/account-service/internal/domain"
)

// ListQuery holds the skip/limit paging parameters of GET /users.
// A zero Limit means "use the server default".
type ListQuery struct {
	Skip  int
	Limit int
}

func ParseListQuery(q url.Values) (ListQuery, error) {
	var out ListQuery
	var err error
	if out.Skip, err = intParam(q, "skip"); err != nil {
		return ListQuery{}, err
	}
	if out.Limit, err = intParam(q, "limit"); err != nil {
		return ListQuery{}, err
	}
	return out, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidField(name, "must be an integer")
	}
	if n < 0 {
		return 0, domain.ErrInvalidField(name, "must be non-negative")
	}
	return n, nil
}
