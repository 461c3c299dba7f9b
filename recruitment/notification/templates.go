package notification

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
)

// Template is a reusable message body offered to admins
type Template struct {
	Name    string `json:"nom"`
	Content string `json:"contenu"`
}

func DefaultTemplates() map[string]Template {
	return map[string]Template{
		"acceptation": {
			Name: "Message d'acceptation",
			Content: "Félicitations {{prenom}} {{nom}} !\n\n" +
				"Nous avons le plaisir de vous informer que votre candidature a été acceptée.\n\n" +
				"Votre profil correspond parfaitement à nos attentes :\n" +
				"- Diplômes : {{diplomes}}\n" +
				"- Domaines d'intervention : {{domainesIntervention}}\n" +
				"- Statut actuel : {{statut}}\n\n" +
				"Nous vous contacterons prochainement pour la suite du processus.\n\n" +
				"Cordialement,\nL'équipe de recrutement",
		},
		"refus": {
			Name: "Message de refus",
			Content: "Bonjour {{prenom}} {{nom}},\n\n" +
				"Nous vous remercions pour l'intérêt que vous portez à notre organisation.\n\n" +
				"Après étude attentive de votre candidature, nous regrettons de vous informer que nous ne pouvons pas donner suite à votre demande pour le moment.\n\n" +
				"Votre profil :\n" +
				"- Diplômes : {{diplomes}}\n" +
				"- Nationalité : {{nationalite}}\n" +
				"- Statut : {{statut}}\n\n" +
				"Nous conservons votre candidature dans notre base de données pour de futures opportunités.\n\n" +
				"Cordialement,\nL'équipe de recrutement",
		},
		"relance": {
			Name: "Message de relance",
			Content: "Bonjour {{prenom}} {{nom}},\n\n" +
				"Nous revenons vers vous concernant votre candidature déposée le {{dateCreation}}.\n\n" +
				"Statut actuel : {{statut}}\n" +
				"Nombre d'emails reçus : {{emailsEnvoyes}}\n\n" +
				"Nous souhaitons avoir des informations complémentaires sur votre profil.\n\n" +
				"Pourriez-vous nous confirmer votre disponibilité ?\n\n" +
				"Cordialement,\nL'équipe de recrutement",
		},
	}
}

// LoadTemplates returns the built-in templates overlaid with the ones in
// path, a JSON object of key -> {nom, contenu}. An empty path yields the
// built-ins.
func LoadTemplates(path string) (map[string]Template, error) {
	templates := DefaultTemplates()
	if path == "" {
		return templates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates %s: %w", path, err)
	}
	var extra map[string]Template
	if err := json.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse templates %s: %w", path, err)
	}
	for key, t := range extra {
		if key == "" || t.Content == "" {
			return nil, fmt.Errorf("template %q in %s has no content", key, path)
		}
	}
	maps.Copy(templates, extra)
	return templates, nil
}
