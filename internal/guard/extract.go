package guard

import (
	"net/http"
	"strings"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer"
)

// FromAuthHeader extracts a bearer token from an Authorization header value.
func FromAuthHeader(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// FromRequest extracts the access token from an HTTP request, preferring the
// Authorization header and falling back to the named cookie.
func FromRequest(r *http.Request, cookieName string) (string, bool) {
	if token, ok := FromAuthHeader(r.Header.Get(authorizationHeader)); ok {
		return token, true
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}

// FromHandshake extracts the access token from a connection handshake
// request: Authorization header, then the handshake "token" field carried as
// a query parameter, then the access cookie.
func FromHandshake(r *http.Request, cookieName string) (string, bool) {
	if token, ok := FromAuthHeader(r.Header.Get(authorizationHeader)); ok {
		return token, true
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}
