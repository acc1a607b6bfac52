package auth

import (
	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// LoginInput carries a credential pair plus the role implied by the endpoint
// the request arrived on.
type LoginInput struct {
	Email    string
	Password string
	Role     enums.PrincipalRole
}

// LoginResult is handed back to the client on a successful login. BearerToken
// is the only copy of the session secret; the server stores a digest.
type LoginResult struct {
	BearerToken string              `json:"token"`
	CSRFToken   string              `json:"csrf_token"`
	PrincipalID uuid.UUID           `json:"principal_id"`
	Username    string              `json:"username"`
	Role        enums.PrincipalRole `json:"role"`
}

// SessionContext identifies the authenticated principal on a request.
type SessionContext struct {
	PrincipalID uuid.UUID
	Role        enums.PrincipalRole
}
