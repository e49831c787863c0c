package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/BruksfildServices01/barberconnect/internal/httperr"
)

var strictPolicy = bluemonday.StrictPolicy()

const maxFormBytes = int64(65536)

// SanitizeInput strips markup from the top-level string fields of a JSON body.
// Used on public forms whose values are shown back to shop owners. The kept
// text is stored unescaped; output encoding happens where it is rendered.
func SanitizeInput() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)
		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			httperr.BadRequest(c, "invalid_body", "Request body too large or unreadable.")
			return
		}

		var body map[string]any
		if err := json.Unmarshal(buf, &body); err != nil {
			httperr.BadRequest(c, "malformed_json", "Malformed JSON.")
			return
		}

		for k, v := range body {
			if s, ok := v.(string); ok {
				body[k] = html.UnescapeString(strictPolicy.Sanitize(s))
			}
		}

		clean, _ := json.Marshal(body)
		c.Request.Body = io.NopCloser(bytes.NewReader(clean))
		c.Request.ContentLength = int64(len(clean))

		c.Next()
	}
}
