package chat

import (
	"time"

	"github.com/cloodio/secchat/backend/internal/model/identity"
)

// Session captures one conversation context. Owner is nil for visitors who
// have not signed in; the session is still fully usable.
type Session struct {
	ID        string         `json:"id"`
	Owner     *identity.User `json:"owner,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
