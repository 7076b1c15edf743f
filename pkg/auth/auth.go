// Package auth resolves the user of a request.
//
// The ledger does not authenticate users itself. A Provider returns the user
// that an upstream component, e.g. an authenticating reverse proxy, has
// established for the request.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tally-ledger/backend/pkg/httperrors"
	"github.com/tally-ledger/backend/pkg/models"
)

// Headers set by the authenticating proxy.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
)

const contextKey = "user"

// User is the user a request is made for.
type User struct {
	ID   string
	Name string
}

// LocalDevUser is the user for local development.
var LocalDevUser = User{
	ID:   "local-dev-user",
	Name: "Local Dev User",
}

// Provider returns the user of a request.
type Provider interface {
	CurrentUser(r *http.Request) (User, error)
}

// HeaderProvider reads the user from the headers set by the authenticating proxy.
// It must only be used behind a proxy that removes these headers from client requests.
type HeaderProvider struct{}

func (HeaderProvider) CurrentUser(r *http.Request) (User, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return User{}, models.ErrUnauthenticated
	}

	return User{
		ID:   id,
		Name: strings.TrimSpace(r.Header.Get(HeaderUserName)),
	}, nil
}

// StaticProvider returns the same user for every request.
type StaticProvider struct {
	User User
}

func (p StaticProvider) CurrentUser(_ *http.Request) (User, error) {
	if p.User.ID == "" {
		return User{}, models.ErrUnauthenticated
	}

	return p.User, nil
}

// Middleware resolves the user with the provider and aborts the request
// with 401 Unauthorized if there is none.
func Middleware(p Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := p.CurrentUser(c.Request)
		if err != nil {
			httperrors.Handler(c, err)
			c.Abort()
			return
		}

		c.Set(contextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user that the Middleware resolved for the request.
func CurrentUser(c *gin.Context) (User, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return User{}, false
	}

	user, ok := v.(User)
	return user, ok
}

// UserID returns the ID of the current user. It is empty if there is none.
func UserID(c *gin.Context) string {
	user, _ := CurrentUser(c)
	return user.ID
}
