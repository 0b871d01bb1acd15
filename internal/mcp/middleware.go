package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const userIDKey contextKey = iota

// getUserID extracts the acting user ID from context.
func getUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// identityMiddleware reads the acting user from the X-Acting-User
// header, falling back to a bearer token subject and then the default
// user. Identity selects a permission profile; it is not
// authentication.
func identityMiddleware(defaultUser string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			userID := defaultUser

			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				if u := strings.TrimSpace(extra.Header.Get("X-Acting-User")); u != "" {
					userID = u
				} else if auth := extra.Header.Get("Authorization"); auth != "" {
					if token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); token != "" {
						userID = token
					}
				}
			}

			ctx = context.WithValue(ctx, userIDKey, userID)
			return next(ctx, method, req)
		}
	}
}

// defaultIdentityMiddleware injects a fixed user for stdio transport.
func defaultIdentityMiddleware(defaultUser string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, userIDKey, defaultUser)
			return next(ctx, method, req)
		}
	}
}
