package notification

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/youssef9656/server/recruitment/candidacy"
	"github.com/youssef9656/server/recruitment/contact"
)

const (
	CandidateSubject    = "Message de la plateforme"
	NewCandidacySubject = "Contact : Nouvelle candidature reçue"
	ForwardSubject      = "Nouveau message du site"
)

var envelopes = template.Must(template.New("mail").Parse(`
{{define "lines"}}{{range $i, $l := .}}{{if $i}}<br>{{end}}{{$l}}{{end}}{{end}}

{{define "candidate"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1890ff; border-bottom: 2px solid #1890ff; padding-bottom: 10px;">Message de la plateforme</h2>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #333;">Bonjour {{.FirstName}} {{.LastName}},</h3>
    <div style="line-height: 1.6; color: #555;">{{template "lines" .Lines}}</div>
  </div>
  <div style="background-color: #e6f7ff; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h4 style="margin-top: 0; color: #1890ff;">Informations de votre candidature :</h4>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 5px; font-weight: bold;">Statut actuel :</td><td style="padding: 5px;">{{.Status}}</td></tr>
      <tr><td style="padding: 5px; font-weight: bold;">Email :</td><td style="padding: 5px;">{{.Email}}</td></tr>
      <tr><td style="padding: 5px; font-weight: bold;">Téléphone :</td><td style="padding: 5px;">{{.Phone}}</td></tr>
      <tr><td style="padding: 5px; font-weight: bold;">Nationalité :</td><td style="padding: 5px;">{{.Nationality}}</td></tr>
      {{- if .Domains}}
      <tr><td style="padding: 5px; font-weight: bold;">Domaines :</td><td style="padding: 5px;">{{.Domains}}</td></tr>
      {{- end}}
    </table>
  </div>
  <div style="text-align: center; margin-top: 30px; padding-top: 20px; border-top: 1px solid #ddd;">
    <p style="color: #888; font-size: 12px;">Cet email a été envoyé automatiquement depuis notre plateforme de gestion des candidatures.</p>
  </div>
</div>{{end}}

{{define "reply"}}<p>Bonjour,</p>
<p>{{template "lines" .Lines}}</p>
<p>Cordialement,<br>L'équipe</p>{{end}}

{{define "new_candidacy"}}<h3>Nouvelle candidature soumise</h3>
<p><strong>Nom :</strong> {{.FirstName}} {{.LastName}}</p>
<p><strong>Email :</strong> {{.Email}}</p>
<p><strong>Téléphone :</strong> {{.Phone}}</p>
<p><strong>Date de naissance :</strong> {{.BirthDate}}</p>
<p><strong>Nationalité :</strong> {{.Nationality}}</p>
<p><strong>Diplômes :</strong> {{.Degrees}}</p>
<p><strong>Emploi actuel :</strong> {{.CurrentJob}}</p>
<p><strong>Domaines d'intervention :</strong> {{.Domains}}</p>
<p><strong>Expériences professionnelles :</strong></p>
<p>{{template "lines" .Lines}}</p>
{{- if .CVURL}}
<p><strong>CV :</strong> <a href="{{.CVURL}}">{{.CVName}}</a></p>
{{- end}}{{end}}

{{define "new_contact"}}<h3>Nouveau message de contact</h3>
<p><strong>Nom :</strong> {{.FullName}}</p>
<p><strong>Email :</strong> {{.Email}}</p>
{{- if .Phone}}
<p><strong>Téléphone :</strong> {{.Phone}}</p>
{{- end}}
<p><strong>Sujet :</strong> {{.Subject}}</p>
<p><strong>Message :</strong></p>
<p>{{template "lines" .Lines}}</p>{{end}}

{{define "forward"}}<h3>Nouveau message depuis le formulaire de contact</h3>
<p><strong>Expéditeur :</strong> {{.Email}}</p>
<p><strong>Message :</strong></p>
<p>{{template "lines" .Lines}}</p>{{end}}
`))

func splitLines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := envelopes.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CandidateEnvelope wraps an already rendered message for the candidate
func CandidateEnvelope(message string, c *candidacy.Candidacy) (string, error) {
	return execute("candidate", struct {
		FirstName, LastName, Status, Email, Phone, Nationality, Domains string
		Lines                                                           []string
	}{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Status:      string(c.Status),
		Email:       c.Email.String(),
		Phone:       c.Phone,
		Nationality: c.Nationality,
		Domains:     strings.Join(c.Domains, ", "),
		Lines:       splitLines(message),
	})
}

func ReplySubject(subject string) string {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "sans sujet"
	}
	return "Réponse à votre message : " + subject
}

func ReplyEnvelope(body string) (string, error) {
	return execute("reply", struct{ Lines []string }{splitLines(body)})
}

// NewCandidacyNotice is sent to the ops mailbox; cvURL may be empty
func NewCandidacyNotice(c *candidacy.Candidacy, cvURL string) (string, error) {
	return execute("new_candidacy", struct {
		FirstName, LastName, Email, Phone, BirthDate, Nationality string
		Degrees, CurrentJob, Domains, CVURL, CVName                string
		Lines                                                      []string
	}{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email.String(),
		Phone:       c.Phone,
		BirthDate:   c.BirthDate,
		Nationality: c.Nationality,
		Degrees:     c.Degrees,
		CurrentJob:  c.CurrentJobOr("Non renseigné"),
		Domains:     strings.Join(c.Domains, ", "),
		CVURL:       cvURL,
		CVName:      c.OriginalName,
		Lines:       splitLines(c.Experience),
	})
}

func ContactSubject(m *contact.Message) string {
	return "Contact : " + m.Subject
}

func NewContactNotice(m *contact.Message) (string, error) {
	return execute("new_contact", struct {
		FullName, Email, Phone, Subject string
		Lines                           []string
	}{
		FullName: m.FullName,
		Email:    m.Email.String(),
		Phone:    m.Phone,
		Subject:  m.Subject,
		Lines:    splitLines(m.Body),
	})
}

func ForwardNotice(from, body string) (string, error) {
	return execute("forward", struct {
		Email string
		Lines []string
	}{from, splitLines(body)})
}
