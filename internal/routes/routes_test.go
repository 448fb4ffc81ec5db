package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/koleka/koleka/internal/config"
	"github.com/koleka/koleka/internal/logging"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	if err := Setup(app, Deps{
		Cfg:    config.Config{AppName: "koleka-test"},
		Logger: logging.Discard(),
	}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s %s response: %v", method, path, err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// Error responses carry a plain-text body.
		return resp.StatusCode, map[string]any{"error": string(raw)}
	}
	return resp.StatusCode, parsed
}

// A campaign created through the API must be fundable through the API when
// running on the in-memory store, and its committed pledge must be readable
// back through the campaign detail endpoint.
func TestSetupWithoutDatabaseSharesOneStore(t *testing.T) {
	app := newTestApp(t)

	status, created := doJSON(t, app, "POST", "/api/campaigns", map[string]string{
		"title":       "Community well",
		"description": "Clean water for the village",
		"goal":        "500",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d, want %d: %v", status, fiber.StatusCreated, created)
	}
	c, _ := created["campaign"].(map[string]any)
	id, _ := c["id"].(string)
	if id == "" {
		t.Fatalf("expected campaign id in %v", created)
	}

	status, funded := doJSON(t, app, "POST", "/api/campaigns/"+id+"/fund", map[string]string{
		"phone":  "+26876123456",
		"amount": "25",
	})
	if status != fiber.StatusOK {
		t.Fatalf("fund status = %d, want %d: %v", status, fiber.StatusOK, funded)
	}
	tx, _ := funded["transaction"].(map[string]any)
	if simulated, _ := tx["simulated"].(bool); !simulated {
		t.Fatal("expected simulated transaction without a gateway key")
	}

	status, detail := doJSON(t, app, "GET", "/api/campaigns/"+id, nil)
	if status != fiber.StatusOK {
		t.Fatalf("get status = %d, want %d: %v", status, fiber.StatusOK, detail)
	}
	dc, _ := detail["campaign"].(map[string]any)
	if raised, _ := dc["raised"].(string); raised != "25.00" {
		t.Fatalf("raised = %q, want 25.00", raised)
	}
	pledges, _ := detail["pledges"].([]any)
	if len(pledges) != 1 {
		t.Fatalf("pledges = %d, want 1", len(pledges))
	}
}

func TestSetupWithoutDatabaseFundUnknownCampaign(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, "POST", "/api/campaigns/22222222-2222-2222-2222-222222222222/fund", map[string]string{
		"phone":  "+26876123456",
		"amount": "25",
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("fund status = %d, want %d", status, fiber.StatusNotFound)
	}
}
