package authorization

import (
	"context"

	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
)

type Service interface {
	// Authorize returns ErrForbidden unless the identity's role grants action.
	Authorize(ctx context.Context, identity authdomain.Identity, action string) error
	// Capabilities lists the actions granted to role, sorted.
	Capabilities(ctx context.Context, role authdomain.Role) ([]string, error)
}
