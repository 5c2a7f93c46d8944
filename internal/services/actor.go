package services

import (
	"errors"

	"github.com/princeprakhar/tours-backend/internal/models"
)

var ErrForbidden = errors.New("you do not have permission to perform this action")

// Actor is the authenticated caller as established by the auth middleware.
type Actor struct {
	UserID string
	Role   string
}

// CanModify reports whether the actor may change a document owned by
// ownerID. Admins may change anything.
func (a Actor) CanModify(ownerID string) bool {
	return a.Role == models.RoleAdmin || (a.UserID != "" && a.UserID == ownerID)
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
