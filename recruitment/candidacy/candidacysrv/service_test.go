package candidacysrv

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/fsx"
	"github.com/youssef9656/server/pkg/fsx/fsxlocal"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/candidacy"
	"github.com/youssef9656/server/recruitment/candidacy/candidacyinfra"
	"github.com/youssef9656/server/recruitment/resume"
)

type recordingNotifier struct {
	mu   sync.Mutex
	seen []kernel.CandidacyID
}

func (n *recordingNotifier) NotifyNewCandidacy(ctx context.Context, c *candidacy.Candidacy) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, c.ID)
}

type harness struct {
	dir      string
	svc      *Service
	repo     *candidacyinfra.MemoryCandidacyRepository
	fs       fsx.FileSystem
	notifier *recordingNotifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	fs := fsxlocal.NewLocalFileSystem(dir)
	repo := candidacyinfra.NewMemoryCandidacyRepository()
	n := &recordingNotifier{}
	return &harness{
		dir:      dir,
		svc:      NewService(repo, resume.NewStore(fs, nil), n, 0),
		repo:     repo,
		fs:       fs,
		notifier: n,
	}
}

func storedFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, filepath.FromSlash(resume.UploadDir)))
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func form(email string) *candidacy.IntakeForm {
	return &candidacy.IntakeForm{
		LastName:    "Saidi",
		FirstName:   "Amine",
		Email:       email,
		Phone:       "0600000000",
		BirthDate:   "1990-05-14",
		Nationality: "Marocaine",
		Degrees:     "Master",
		Domains:     `["Finance","Audit"]`,
		Experience:  "5 ans",
	}
}

func pdfUpload() *resume.Upload {
	return &resume.Upload{FileName: "cv.pdf", ContentType: resume.MimePDF, Size: 4, Data: []byte("%PDF")}
}

func TestCreate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	before := time.Now()
	resp, err := h.svc.Create(ctx, form("Amine@Example.com"), pdfUpload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !resp.Success || resp.Email != "amine@example.com" || resp.CreatedAt.Before(before) {
		t.Fatalf("unexpected response %+v", resp)
	}

	got, err := h.svc.Get(ctx, resp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != candidacy.StatusPending || got.EmailsSent != 0 {
		t.Errorf("new candidacy should be pending with no emails, got %s/%d", got.Status, got.EmailsSent)
	}
	if len(got.Domains) != 2 || got.CurrentJob != nil {
		t.Errorf("unexpected optional fields %+v", got)
	}
	if ok, _ := h.fs.Exists(ctx, got.Path); !ok {
		t.Errorf("résumé not stored at %s", got.Path)
	}
	if len(h.notifier.seen) != 1 || h.notifier.seen[0] != resp.ID {
		t.Errorf("ops notice not sent: %v", h.notifier.seen)
	}
}

func TestCreateRejectsWithoutWritingFiles(t *testing.T) {
	tests := []struct {
		name   string
		form   *candidacy.IntakeForm
		upload *resume.Upload
		code   errx.Code
	}{
		{"missing field", func() *candidacy.IntakeForm { f := form("a@b.co"); f.Phone = ""; return f }(), pdfUpload(), candidacy.CodeMissingField},
		{"bad email", form("nope"), pdfUpload(), candidacy.CodeInvalidEmail},
		{"no file", form("a@b.co"), nil, resume.CodeMissingCV},
		{"wrong type", form("a@b.co"), &resume.Upload{FileName: "x.png", ContentType: "image/png", Size: 3}, resume.CodeInvalidFileType},
		{"too large", form("a@b.co"), &resume.Upload{FileName: "x.pdf", ContentType: resume.MimePDF, Size: resume.DefaultMaxSize + 1}, resume.CodeFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.svc.Create(context.Background(), tt.form, tt.upload)
			if !errx.IsCode(err, tt.code) {
				t.Fatalf("want %s, got %v", tt.code, err)
			}
			all, _ := h.repo.ListAll(context.Background(), candidacy.ListFilter{})
			if storedFiles(t, h.dir) != 0 || len(all) != 0 || len(h.notifier.seen) != 0 {
				t.Errorf("rejected submission left traces")
			}
		})
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.svc.Create(ctx, form("amine@example.com"), pdfUpload()); err != nil {
		t.Fatal(err)
	}
	_, err := h.svc.Create(ctx, form(" AMINE@example.com "), pdfUpload())
	if !errx.IsCode(err, candidacy.CodeEmailExists) {
		t.Fatalf("want EMAIL_EXISTS, got %v", err)
	}
	if n := storedFiles(t, h.dir); n != 1 {
		t.Errorf("want exactly one stored résumé, got %d", n)
	}
}

// insertFailingRepo lets the pre-check pass and fails on insert, as a
// concurrent submission would.
type insertFailingRepo struct {
	*candidacyinfra.MemoryCandidacyRepository
}

func (insertFailingRepo) Create(ctx context.Context, c *candidacy.Candidacy) error {
	return candidacy.ErrEmailExists()
}

func TestCreateRemovesFileWhenInsertFails(t *testing.T) {
	dir := t.TempDir()
	fs := fsxlocal.NewLocalFileSystem(dir)
	repo := insertFailingRepo{candidacyinfra.NewMemoryCandidacyRepository()}
	svc := NewService(repo, resume.NewStore(fs, nil), nil, 0)

	_, err := svc.Create(context.Background(), form("a@b.co"), pdfUpload())
	if !errx.IsCode(err, candidacy.CodeEmailExists) {
		t.Fatalf("want EMAIL_EXISTS, got %v", err)
	}
	if n := storedFiles(t, dir); n != 0 {
		t.Errorf("want no résumé left behind, got %d", n)
	}
}

func TestUpdateStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	created, err := h.svc.Create(ctx, form("a@b.co"), pdfUpload())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := h.svc.UpdateStatus(ctx, created.ID, "Validé"); !errx.IsCode(err, candidacy.CodeInvalidStatus) {
		t.Fatalf("want INVALID_STATUS, got %v", err)
	}
	got, _ := h.svc.Get(ctx, created.ID)
	if got.Status != candidacy.StatusPending || got.UpdatedAt != nil {
		t.Fatalf("rejected status change modified the record: %+v", got)
	}

	resp, err := h.svc.UpdateStatus(ctx, created.ID, "Accepté")
	if err != nil || resp.Status != candidacy.StatusAccepted {
		t.Fatalf("update: %+v %v", resp, err)
	}
	if _, err := h.svc.UpdateStatus(ctx, created.ID, "En attente"); err != nil {
		t.Errorf("any transition between known statuses is allowed: %v", err)
	}
	got, _ = h.svc.Get(ctx, created.ID)
	if got.UpdatedAt == nil {
		t.Errorf("modification date not set")
	}

	if _, err := h.svc.UpdateStatus(ctx, "123", "Accepté"); !errx.IsCode(err, candidacy.CodeInvalidID) {
		t.Errorf("want INVALID_ID, got %v", err)
	}
	if _, err := h.svc.UpdateStatus(ctx, kernel.CandidacyID(kernel.NewID()), "Accepté"); !errx.IsCode(err, candidacy.CodeNotFound) {
		t.Errorf("want NOT_FOUND, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	created, err := h.svc.Create(ctx, form("a@b.co"), pdfUpload())
	if err != nil {
		t.Fatal(err)
	}
	stored, _ := h.svc.Get(ctx, created.ID)

	resp, err := h.svc.Delete(ctx, created.ID)
	if err != nil || !resp.Success || len(resp.Warnings) != 0 {
		t.Fatalf("delete: %+v %v", resp, err)
	}
	if _, err := h.svc.Get(ctx, created.ID); !errx.IsCode(err, candidacy.CodeNotFound) {
		t.Errorf("record still present: %v", err)
	}
	if ok, _ := h.fs.Exists(ctx, stored.Path); ok {
		t.Errorf("résumé still present")
	}

	if _, err := h.svc.Delete(ctx, "not-an-id"); !errx.IsCode(err, candidacy.CodeInvalidID) {
		t.Errorf("want INVALID_ID, got %v", err)
	}
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, e := range []string{"a@b.co", "c@d.co"} {
		if _, err := h.svc.Create(ctx, form(e), pdfUpload()); err != nil {
			t.Fatal(err)
		}
	}

	out, err := h.svc.Export(ctx, candidacy.ListFilter{}, FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(out.Data)).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if len(records) != 3 || records[0][0] != "Nom" || records[1][8] != "Finance, Audit" {
		t.Errorf("unexpected csv %v", records)
	}
	if !strings.HasSuffix(out.FileName, ".csv") {
		t.Errorf("unexpected file name %s", out.FileName)
	}

	out, err = h.svc.Export(ctx, candidacy.ListFilter{}, FormatXLSX)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(exportSheet)
	if err != nil || len(rows) != 3 || rows[0][1] != "Prénom" {
		t.Errorf("unexpected sheet %v %v", rows, err)
	}

	if _, err := ParseExportFormat("pdf"); !errx.IsCode(err, candidacy.CodeInvalidExportFormat) {
		t.Errorf("want INVALID_EXPORT_FORMAT, got %v", err)
	}
}

func TestExportCSVNeutralizesFormulas(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	f := form("x@y.co")
	f.LastName = `=HYPERLINK("http://evil.example","x")`
	f.FirstName = "@SUM(A1)"
	f.Phone = "+212600000000"
	f.CurrentJob = "-2+3"
	if _, err := h.svc.Create(ctx, f, pdfUpload()); err != nil {
		t.Fatal(err)
	}

	out, err := h.svc.Export(ctx, candidacy.ListFilter{}, FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(out.Data)).ReadAll()
	if err != nil || len(records) != 2 {
		t.Fatalf("csv: %v %v", records, err)
	}
	row := records[1]
	want := map[int]string{
		0: `'=HYPERLINK("http://evil.example","x")`,
		1: "'@SUM(A1)",
		3: "'+212600000000",
		6: "Master",
		7: "'-2+3",
	}
	for i, w := range want {
		if row[i] != w {
			t.Errorf("column %s = %q, want %q", records[0][i], row[i], w)
		}
	}

	out, err = h.svc.Export(ctx, candidacy.ListFilter{}, FormatXLSX)
	if err != nil {
		t.Fatal(err)
	}
	book, err := excelize.OpenReader(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatal(err)
	}
	defer book.Close()
	rows, _ := book.GetRows(exportSheet)
	if len(rows) != 2 || rows[1][0] != f.LastName {
		t.Errorf("workbook must keep the raw value, got %v", rows)
	}
}
