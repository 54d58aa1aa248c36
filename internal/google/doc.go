// Package google provides OAuth2 authentication and token management for
// the Google Calendar API.
//
// Tokens are stored per account in files under the user cache directory.
// The TokenProvider interface allows different token sources to be
// plugged in without touching the calendar client.
package google
