package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/storefront/internal/apierror"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
)

const (
	subjectKey = "auth_subject"

	bearerChallenge = `Bearer realm="api"`
)

type authFailure struct {
	status  int
	code    string
	message string
	hint    string
}

var authFailures = map[auth.Reason]authFailure{
	auth.ReasonMissingHeader: {
		status:  http.StatusUnauthorized,
		code:    "MISSING_AUTH_HEADER",
		message: "Unauthorized: missing authorization header",
		hint:    "Include 'Authorization: Bearer <token>' in your request headers",
	},
	auth.ReasonMalformedHeader: {
		status:  http.StatusBadRequest,
		code:    "INVALID_AUTH_HEADER",
		message: "Invalid Authorization header format",
		hint:    "Authorization header must be in format: Bearer <token>",
	},
	auth.ReasonEmptyToken: {
		status:  http.StatusUnauthorized,
		code:    "EMPTY_TOKEN",
		message: "Unauthorized: token is empty",
		hint:    "Provide a valid JWT token after 'Bearer '",
	},
	auth.ReasonExpired: {
		status:  http.StatusUnauthorized,
		code:    "TOKEN_EXPIRED",
		message: "Unauthorized: token has expired",
		hint:    "Please obtain a new authentication token",
	},
	auth.ReasonInvalid: {
		status:  http.StatusUnauthorized,
		code:    "INVALID_TOKEN",
		message: "Unauthorized: invalid token",
		hint:    "Token signature or format is invalid",
	},
	auth.ReasonMissingSubjectClaim: {
		status:  http.StatusUnauthorized,
		code:    "MISSING_USER_ID_CLAIM",
		message: "Unauthorized: token does not contain user_id",
		hint:    "Token must include a valid user_id claim",
	},
}

// RequireAuth rejects requests without a valid bearer token. On success the
// token subject is stored on the context for Subject and Actor.
func RequireAuth(authn *auth.Authenticator, builder *apierror.Builder, m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := authn.Authenticate(c.Request.Header.Values("Authorization"))
		if out.Authenticated() {
			c.Set(subjectKey, out.Subject)
			c.Next()
			return
		}

		if m != nil {
			m.AuthFailuresTotal.WithLabelValues(out.Reason.String()).Inc()
		}

		f := authFailures[out.Reason]
		opts := []apierror.Option{apierror.WithCode(f.code), apierror.WithHint(f.hint)}
		if out.Err != nil {
			opts = append(opts, apierror.WithDetails(out.Err.Error()))
		}
		if f.status == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", bearerChallenge)
		}
		builder.Build(f.message, f.status, opts...).Respond(c)
	}
}

// Subject returns the authenticated subject, or "" on unauthenticated routes.
func Subject(c *gin.Context) string {
	return c.GetString(subjectKey)
}

func Actor(c *gin.Context) domain.Actor {
	return domain.Actor{
		Subject:   Subject(c),
		IPAddress: c.ClientIP(),
		RequestID: RequestID(c),
	}
}
