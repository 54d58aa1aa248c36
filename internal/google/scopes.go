package google

// DefaultOAuthScopes are the Google OAuth scopes the scheduler requests.
//
// The scopes provide access to:
//   - OpenID Connect user info (account identification)
//   - Google Calendar: full access (read, create, update, delete events)
var DefaultOAuthScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",
}
