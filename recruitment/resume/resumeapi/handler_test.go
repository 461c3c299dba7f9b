package resumeapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/fsx/fsxlocal"
	"github.com/youssef9656/server/pkg/iam/auth"
	"github.com/youssef9656/server/pkg/iam/user"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/candidacy/candidacyinfra"
	"github.com/youssef9656/server/recruitment/notification/notificationinfra"
	"github.com/youssef9656/server/recruitment/notification/notificationsrv"
	"github.com/youssef9656/server/recruitment/resume"
)

type nopSender struct{}

func (nopSender) Send(ctx context.Context, to, subject, html string) error { return nil }

type fixture struct {
	app    *fiber.App
	tokens *auth.JWTService
	stored *resume.Attachment
	other  *resume.Attachment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := resume.NewStore(fsxlocal.NewLocalFileSystem(t.TempDir()), nil)
	tokens := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour, "test")

	stored, err := store.Attach(context.Background(), &resume.Upload{
		FileName: "mon cv.pdf", ContentType: resume.MimePDF, Size: 13, Data: []byte("%PDF-1.4 test"),
	})
	if err != nil {
		t.Fatal(err)
	}
	other, err := store.Attach(context.Background(), &resume.Upload{
		FileName: "autre.pdf", ContentType: resume.MimePDF, Size: 4, Data: []byte("%PDF"),
	})
	if err != nil {
		t.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := errx.AsError(err); ok {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	NewResumeHandlers(store, tokens).RegisterRoutes(app, auth.NewAuthMiddleware(tokens))

	return &fixture{app: app, tokens: tokens, stored: stored, other: other}
}

func (f *fixture) get(t *testing.T, target, bearer string) (int, string, *http.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp
}

func TestNoticeLinkOpensResume(t *testing.T) {
	f := newFixture(t)
	d := notificationsrv.NewDispatcher(nopSender{}, candidacyinfra.NewMemoryCandidacyRepository(), notificationinfra.NewMemoryQueue(1), notificationsrv.Config{
		PublicURL: "https://rh.example.com",
		Links:     f.tokens,
	})

	link, err := url.Parse(d.ResumeURL(f.stored.FileName))
	if err != nil || link.Query().Get("token") == "" {
		t.Fatalf("notice link %q carries no token (%v)", link, err)
	}

	status, body, resp := f.get(t, link.RequestURI(), "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", status, body)
	}
	if body != "%PDF-1.4 test" {
		t.Errorf("body = %q", body)
	}
	if got := resp.Header.Get(fiber.HeaderContentDisposition); got != `attachment; filename="mon cv.pdf"` {
		t.Errorf("Content-Disposition = %q", got)
	}
}

func TestDownloadAccess(t *testing.T) {
	f := newFixture(t)
	path := "/api/cv/" + url.PathEscape(f.stored.FileName.String())

	forOther, err := f.tokens.GenerateResumeToken(f.other.FileName.String())
	if err != nil {
		t.Fatal(err)
	}
	bearer, err := f.tokens.GenerateAccessToken(&user.User{
		ID:    kernel.UserID(kernel.NewID()),
		Email: "admin@example.com",
		Role:  user.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		target string
		bearer string
		status int
	}{
		{"no credentials", path, "", http.StatusUnauthorized},
		{"token for another file", path + "?token=" + url.QueryEscape(forOther), "", http.StatusForbidden},
		{"access token as link token", path + "?token=" + url.QueryEscape(bearer), "", http.StatusForbidden},
		{"garbage token", path + "?token=nope", "", http.StatusForbidden},
		{"bearer", path, bearer, http.StatusOK},
		{"preview still needs bearer", path + "/preview?token=" + url.QueryEscape(forOther), "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, _ := f.get(t, tt.target, tt.bearer)
			if status != tt.status {
				t.Errorf("status = %d, want %d (body %s)", status, tt.status, body)
			}
		})
	}
}
