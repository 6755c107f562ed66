package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/platform/apierr"
	"github.com/yungbote/coursegen-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// flexInt accepts 3 as well as "3"; HTML number inputs post strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*f = flexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

func logFailure(log *logger.Logger, c *gin.Context, op string, err error) {
	fields := append([]interface{}{
		"op", op,
		"status", apierr.StatusOf(err),
		"error", err,
		"user_email", ctxutil.Email(c.Request.Context()),
	}, ctxutil.LogFields(c.Request.Context())...)
	if apierr.StatusOf(err) >= 500 {
		log.Error("Request failed", fields...)
		return
	}
	log.Debug("Request rejected", fields...)
}

func badJSON(err error) error {
	return apierr.BadRequest("invalid_json", fmt.Errorf("invalid request body: %w", err))
}
