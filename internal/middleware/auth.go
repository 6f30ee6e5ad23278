package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/modules/repo"
	"github.com/webprompt/promptengine/internal/modules/serializer"
)

// ProfileAuth authenticates requests with a profile API key and puts the
// profile in the context. The session/identity provider in front of this
// service is expected to hold the key, never the browser user directly.
func ProfileAuth(profiles repo.ProfileRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		key := strings.TrimPrefix(auth, "Bearer ")

		profile, err := profiles.GetByAPIKey(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		// Tag the current span for telemetry filtering.
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			span.SetAttributes(attribute.String("profile_id", profile.ID.String()))
		}

		c.Set("profile", profile)
		c.Next()
	}
}

// CurrentProfile pulls the authenticated profile out of the context.
func CurrentProfile(c *gin.Context) (*model.Profile, bool) {
	v, ok := c.Get("profile")
	if !ok {
		return nil, false
	}
	p, ok := v.(*model.Profile)
	return p, ok
}
