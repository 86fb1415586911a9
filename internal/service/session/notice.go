package session

import (
	"fmt"

	"github.com/cloodio/secchat/backend/internal/model/identity"
)

const signInPrompt = "Unlock Cloodio's Cybersecurity AI! Sign in with your Microsoft account."

// InitFailureNotice is shown when session construction fails at chat start.
const InitFailureNotice = "Failed to initialize chat. Please try again."

// NotReadyNotice is shown when a message arrives for a session that was
// never successfully initialized.
const NotReadyNotice = "Session not properly initialized. Please restart the chat."

// WelcomeNotice returns the chat-start notice: a personalized greeting for
// signed-in users, a sign-in prompt otherwise. Display-only, never an error.
func WelcomeNotice(owner *identity.User) string {
	if owner == nil {
		return signInPrompt
	}
	return fmt.Sprintf("Hello, %s! Cloodio's Cybersecurity AI is ready to assist you.", owner.DisplayName)
}
