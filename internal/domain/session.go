package domain

// Session is the single currently-authenticated user. At most one session is
// active per Persistent Store: it is created on successful registration or
// login, persisted until explicit logout, and restored on application start.
type Session struct {
	User UserRecord
}

// Theme values persisted under KeyTheme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)
