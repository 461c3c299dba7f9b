package notification

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/valyala/fasttemplate"
	"github.com/youssef9656/server/recruitment/candidacy"
)

const (
	dateLayout = "02/01/2006"

	fallbackCurrentJob = "Non spécifié"
	fallbackLastEmail  = "Jamais"
)

// Variables returns the placeholder values for c, keyed by placeholder name
func Variables(c *candidacy.Candidacy) map[string]string {
	vars := map[string]string{
		"nom":                         c.LastName,
		"prenom":                      c.FirstName,
		"email":                       c.Email.String(),
		"telephone":                   c.Phone,
		"dateNaissance":               formatBirthDate(c.BirthDate),
		"nationalite":                 c.Nationality,
		"diplomes":                    c.Degrees,
		"emploiActuel":                c.CurrentJobOr(fallbackCurrentJob),
		"domainesIntervention":        strings.Join(c.Domains, ", "),
		"experiencesProfessionnelles": c.Experience,
		"statut":                      string(c.Status),
		"dateCreation":                formatDate(c.CreatedAt),
		"emailsEnvoyes":               strconv.Itoa(c.EmailsSent),
		"dernierEmailEnvoye":          fallbackLastEmail,
	}
	if c.LastEmailAt != nil {
		vars["dernierEmailEnvoye"] = formatDate(*c.LastEmailAt)
	}
	return vars
}

// Render substitutes {{placeholder}} tags in one pass. Unknown tags are kept
// verbatim and substituted values are never expanded again.
func Render(tmpl string, c *candidacy.Candidacy) string {
	vars := Variables(c)
	out, err := fasttemplate.ExecuteFuncStringWithErr(tmpl, "{{", "}}", func(w io.Writer, tag string) (int, error) {
		if v, ok := vars[tag]; ok {
			return io.WriteString(w, v)
		}
		// a stray "{{" opens the tag early; the placeholder is what follows the last one
		if i := strings.LastIndex(tag, "{{"); i >= 0 {
			if v, ok := vars[tag[i+2:]]; ok {
				return io.WriteString(w, "{{"+tag[:i]+v)
			}
		}
		return io.WriteString(w, "{{"+tag+"}}")
	})
	if err != nil {
		return tmpl
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// formatBirthDate keeps the submitted text when it cannot be read as a date
func formatBirthDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.Format(dateLayout)
}
