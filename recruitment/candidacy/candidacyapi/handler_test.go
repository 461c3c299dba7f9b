package candidacyapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/fsx/fsxlocal"
	"github.com/youssef9656/server/pkg/iam/auth"
	"github.com/youssef9656/server/pkg/iam/user"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/candidacy/candidacyinfra"
	"github.com/youssef9656/server/recruitment/candidacy/candidacysrv"
	"github.com/youssef9656/server/recruitment/resume"
)

type testApp struct {
	app   *fiber.App
	token string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	tokens := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour, "test")
	svc := candidacysrv.NewService(
		candidacyinfra.NewMemoryCandidacyRepository(),
		resume.NewStore(fsxlocal.NewLocalFileSystem(t.TempDir()), nil),
		nil,
		0,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := errx.AsError(err); ok {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	NewCandidacyHandlers(svc).RegisterRoutes(app, auth.NewAuthMiddleware(tokens), func(c *fiber.Ctx) error { return c.Next() })

	token, err := tokens.GenerateAccessToken(&user.User{
		ID:    kernel.UserID(kernel.NewID()),
		Email: "admin@example.com",
		Role:  user.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &testApp{app: app, token: token}
}

func (a *testApp) do(t *testing.T, req *http.Request, authed bool) (int, map[string]any) {
	t.Helper()
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func submission(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if withFile {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="cv"; filename="mon cv.pdf"`)
		h.Set("Content-Type", resume.MimePDF)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("%PDF-1.4"))
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/candidature", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func fields(email string) map[string]string {
	return map[string]string{
		"nom":                         "Saidi",
		"prenom":                      "Amine",
		"email":                       email,
		"telephone":                   "0600000000",
		"dateNaissance":               "1990-05-14",
		"nationalite":                 "Marocaine",
		"diplomes":                    "Master",
		"domainesIntervention":        `["Finance"]`,
		"experiencesProfessionnelles": "5 ans",
	}
}

func TestCreateEndpoint(t *testing.T) {
	a := newTestApp(t)

	status, body := a.do(t, submission(t, fields("amine@example.com"), true), false)
	if status != fiber.StatusCreated || body["success"] != true || body["id"] == "" {
		t.Fatalf("create: %d %v", status, body)
	}

	status, body = a.do(t, submission(t, fields("amine@example.com"), true), false)
	if status != fiber.StatusBadRequest || body["code"] != "EMAIL_EXISTS" {
		t.Errorf("duplicate: %d %v", status, body)
	}

	missing := fields("other@example.com")
	delete(missing, "nom")
	status, body = a.do(t, submission(t, missing, true), false)
	if status != fiber.StatusBadRequest || body["code"] != "MISSING_FIELD" || body["field"] != "nom" {
		t.Errorf("missing field: %d %v", status, body)
	}

	status, body = a.do(t, submission(t, fields("third@example.com"), false), false)
	if status != fiber.StatusBadRequest || body["code"] != "MISSING_CV" {
		t.Errorf("missing file: %d %v", status, body)
	}
}

func TestAdminEndpoints(t *testing.T) {
	a := newTestApp(t)
	_, created := a.do(t, submission(t, fields("amine@example.com"), true), false)
	id := created["id"].(string)

	status, _ := a.do(t, httptest.NewRequest(http.MethodGet, "/api/candidatures", nil), false)
	if status != fiber.StatusUnauthorized {
		t.Errorf("listing without token: want 401, got %d", status)
	}

	status, body := a.do(t, httptest.NewRequest(http.MethodGet, "/api/candidatures?page=abc&limit=0", nil), true)
	if status != fiber.StatusOK {
		t.Fatalf("list: %d %v", status, body)
	}
	pagination := body["pagination"].(map[string]any)
	if pagination["page"] != float64(1) || pagination["limit"] != float64(10) || pagination["total"] != float64(1) {
		t.Errorf("unexpected pagination %v", pagination)
	}

	status, body = a.do(t, httptest.NewRequest(http.MethodGet, "/api/candidature/not-a-uuid", nil), true)
	if status != fiber.StatusBadRequest || body["code"] != "INVALID_ID" {
		t.Errorf("bad id: %d %v", status, body)
	}

	put := func(statut string) (int, map[string]any) {
		req := httptest.NewRequest(http.MethodPut, "/api/candidature/"+id+"/statut",
			strings.NewReader(fmt.Sprintf(`{"statut":%q}`, statut)))
		req.Header.Set("Content-Type", "application/json")
		return a.do(t, req, true)
	}
	if status, body := put("Inconnu"); status != fiber.StatusBadRequest || body["code"] != "INVALID_STATUS" {
		t.Errorf("invalid status: %d %v", status, body)
	}
	if status, body := put("Refusé"); status != fiber.StatusOK || body["statut"] != "Refusé" {
		t.Errorf("status update: %d %v", status, body)
	}

	status, body = a.do(t, httptest.NewRequest(http.MethodGet, "/api/candidature/"+id, nil), true)
	data, _ := body["data"].(map[string]any)
	if status != fiber.StatusOK || data["statut"] != "Refusé" || data["cvOriginalName"] != "mon cv.pdf" {
		t.Errorf("get: %d %v", status, body)
	}

	status, body = a.do(t, httptest.NewRequest(http.MethodDelete, "/api/candidature/"+id, nil), true)
	if status != fiber.StatusOK || body["message"] != "Candidature supprimée" {
		t.Errorf("delete: %d %v", status, body)
	}
	status, _ = a.do(t, httptest.NewRequest(http.MethodDelete, "/api/candidature/"+id, nil), true)
	if status != fiber.StatusNotFound {
		t.Errorf("second delete: want 404, got %d", status)
	}
}

func TestExportEndpoint(t *testing.T) {
	a := newTestApp(t)
	a.do(t, submission(t, fields("amine@example.com"), true), false)

	req := httptest.NewRequest(http.MethodGet, "/api/candidatures/export?format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+a.token)
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv") {
		t.Fatalf("export: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), ".csv") {
		t.Errorf("missing attachment name: %s", resp.Header.Get("Content-Disposition"))
	}
}
