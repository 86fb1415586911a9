package identity

// User is the internal identity record mapped from provider claims at
// sign-in. Immutable once constructed.
type User struct {
	Identifier     string `json:"identifier"`
	DisplayName    string `json:"displayName"`
	Email          string `json:"email,omitempty"`
	Provider       string `json:"provider"`
	ProviderUserID string `json:"providerUserId,omitempty"`
}
