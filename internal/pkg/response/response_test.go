package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		handler fiber.Handler
		status  int
		success bool
	}{
		{"success", func(c *fiber.Ctx) error { return Success(c, "ok", fiber.Map{"a": 1}) }, 200, true},
		{"created", func(c *fiber.Ctx) error { return Created(c, "made", nil) }, 201, true},
		{"bad request", func(c *fiber.Ctx) error { return BadRequest(c, "bad") }, 400, false},
		{"not found", func(c *fiber.Ctx) error { return NotFound(c, "missing") }, 404, false},
		{"conflict", func(c *fiber.Ctx) error { return Conflict(c, "dup") }, 409, false},
		{"bad gateway", func(c *fiber.Ctx) error { return BadGateway(c, "smtp") }, 502, false},
		{"unavailable", func(c *fiber.Ctx) error { return ServiceUnavailable(c, "off") }, 503, false},
		{"internal", func(c *fiber.Ctx) error { return InternalServerError(c, "boom") }, 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", tt.handler)

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.success, body.Success)
			if !tt.success {
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}
