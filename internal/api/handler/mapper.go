package handler

import (
	"time"

	"github.com/userhub/userhub-api/internal/core/domain"
)

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Roles: []string{u.Role.String()},
	}
	if !u.Birth.IsZero() {
		resp.Birth = u.Birth.UTC().Format(domain.BirthLayout)
	}
	if u.Photo != "" {
		photo := u.Photo
		resp.Photo = &photo
	}
	return resp
}

func toUsersResponse(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

// parseBirth reads a date already checked by the validator.
func parseBirth(s string) (time.Time, error) {
	t, err := time.Parse(domain.BirthLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("birth must be a date formatted as %s", domain.BirthLayout)
	}
	return t.UTC(), nil
}
