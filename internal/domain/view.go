package domain

// View identifies one of the four mutually-exclusive application screens.
type View string

const (
	ViewAdvisor View = "advisor"
	ViewChat    View = "chat"
	ViewStudio  View = "studio"
	ViewVoice   View = "voice"
)

// DefaultView is shown after authentication until the user switches.
const DefaultView = ViewAdvisor

// Valid reports whether v is a member of the closed view enumeration.
func (v View) Valid() bool {
	switch v {
	case ViewAdvisor, ViewChat, ViewStudio, ViewVoice:
		return true
	}
	return false
}

// Label returns the navigation label used for the view, matching the
// sidebar entries of the client application.
func (v View) Label() string {
	switch v {
	case ViewAdvisor:
		return "Project Advisor"
	case ViewChat:
		return "AI Mentor Chat"
	case ViewStudio:
		return "Creative Studio"
	case ViewVoice:
		return "Voice Assistant"
	}
	return string(v)
}
