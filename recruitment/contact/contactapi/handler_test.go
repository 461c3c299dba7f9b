package contactapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/iam/auth"
	"github.com/youssef9656/server/pkg/iam/user"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/contact"
	"github.com/youssef9656/server/recruitment/contact/contactinfra"
	"github.com/youssef9656/server/recruitment/contact/contactsrv"
)

type nopNotifier struct{}

func (nopNotifier) NotifyNewContact(ctx context.Context, m *contact.Message) {}

func (nopNotifier) SendReply(ctx context.Context, to kernel.Email, subject, body string) error {
	return nil
}

func (nopNotifier) ForwardToOps(ctx context.Context, from kernel.Email, body string) error {
	return nil
}

func newApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	tokens := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour, "test")
	svc := contactsrv.NewService(contactinfra.NewMemoryContactRepository(), nopNotifier{})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := errx.AsError(err); ok {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	NewContactHandlers(svc).RegisterRoutes(app, auth.NewAuthMiddleware(tokens), func(c *fiber.Ctx) error { return c.Next() })

	token, err := tokens.GenerateAccessToken(&user.User{
		ID:    kernel.UserID(kernel.NewID()),
		Email: "admin@example.com",
		Role:  user.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}
	return app, token
}

func call(t *testing.T, app *fiber.App, method, target, body, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestContactFlow(t *testing.T) {
	app, token := newApp(t)

	status, body := call(t, app, http.MethodPost, "/api/contact",
		`{"fullName": "Sara Benali", "email": "sara@example.com", "subject": "Stage", "message": "Bonjour"}`, "")
	if status != http.StatusCreated {
		t.Fatalf("create status = %d body = %v", status, body)
	}
	id, _ := body["id"].(string)

	status, body = call(t, app, http.MethodPost, "/api/contact", `{"fullName": "Sara", "email": "sara@example.com"}`, "")
	if status != http.StatusBadRequest || body["field"] != "subject" {
		t.Errorf("missing subject: status = %d body = %v", status, body)
	}

	if status, _ := call(t, app, http.MethodGet, "/api/contacts", "", ""); status != http.StatusUnauthorized {
		t.Errorf("list without token = %d, want 401", status)
	}

	status, body = call(t, app, http.MethodGet, "/api/contacts", "", token)
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if data, _ := body["data"].([]any); len(data) != 1 {
		t.Errorf("list = %v", body["data"])
	}

	status, body = call(t, app, http.MethodPost, "/api/reply",
		`{"email": "sara@example.com", "subject": "Stage", "replyMessage": "Merci", "contactId": "`+id+`"}`, token)
	if status != http.StatusOK {
		t.Fatalf("reply status = %d body = %v", status, body)
	}

	_, body = call(t, app, http.MethodGet, "/api/contacts", "", token)
	data, _ := body["data"].([]any)
	first, _ := data[0].(map[string]any)
	if first["status"] != contact.StatusReplied {
		t.Errorf("status after reply = %v", first["status"])
	}
}
