package middleware

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const redacted = "[REDACTED]"

// sensitiveKeys are masked wherever they appear in logged JSON.
var sensitiveKeys = map[string]struct{}{
	"password":              {},
	"password_confirmation": {},
	"token":                 {},
}

// RequestLogger writes one access-log line per request through zerolog.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// RequestDump logs full request and response bodies with credentials masked.
// It is meant for debugging and is only installed when enabled in config.
func RequestDump(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.BodyDumpWithConfig(echomiddleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/swagger") || c.Path() == "/metrics"
		},
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			req := c.Request()
			log.Debug().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", req.Method).
				Str("url", req.URL.String()).
				Str("content_type", req.Header.Get(echo.HeaderContentType)).
				Str("request_body", RedactJSON(reqBody)).
				Int("status", c.Response().Status).
				Str("response_body", RedactJSON(resBody)).
				Msg("http dump")
		},
	})
}

// RedactJSON masks credential fields in a JSON document. Non-JSON payloads
// are reduced to their size so binary uploads never reach the log.
func RedactJSON(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "<non-json " + strconv.Itoa(len(body)) + " bytes>"
	}
	out, err := json.Marshal(redact(doc))
	if err != nil {
		return "<unprintable>"
	}
	return string(out)
}

func redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				t[k] = redacted
				continue
			}
			t[k] = redact(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = redact(val)
		}
		return t
	default:
		return v
	}
}
