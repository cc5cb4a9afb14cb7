package rayid_test

import (
	"net/http/httptest"
	"testing"

	"entity-kit/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(rayid.New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(rayid.LocalsKey).(string))
	})
	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{"Generated", "", false},
		{"Reused", "2f1b6a52-8d7e-4b0a-9c31-3f1d5b7e9a10", true},
		{"Invalid replaced", "not-a-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.incoming != "" {
				req.Header.Set(rayid.Header, tt.incoming)
			}

			resp, err := newApp().Test(req)
			require.NoError(t, err)

			rid := resp.Header.Get(rayid.Header)
			_, err = uuid.Parse(rid)
			assert.NoError(t, err)
			if tt.reused {
				assert.Equal(t, tt.incoming, rid)
			} else {
				assert.NotEqual(t, tt.incoming, rid)
			}
		})
	}
}
