// Package seed loads the demo dataset: the FOAF vocabulary with one
// property and one class, contributed by a set of test users.
package seed

import (
	"github.com/solidhub/vocabhub/pkg/vocabhub/models"
	"gorm.io/gorm"
)

// TestWebID is the webId of the first seeded user; tests act as them.
const TestWebID = "https://solid.community/tester/profile/card#me"

var testWebIDs = []string{
	TestWebID,
	"https://solid.community/tester2/profile/card#me",
	"https://solid.community/tester3/profile/card#me",
	"https://solid.community/tester4/profile/card#me",
	"https://solid.community/tester5/profile/card#me",
	"https://solid.community/tester6/profile/card#me",
}

// Run seeds the database. Idempotent: existing rows are reused, never duplicated.
func Run(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		users := make([]models.User, 0, len(testWebIDs))
		for _, webID := range testWebIDs {
			user := models.User{}
			if err := tx.Where(models.User{WebID: webID}).
				Attrs(models.User{Name: "Tester"}).
				FirstOrCreate(&user).Error; err != nil {
				return err
			}
			users = append(users, user)
		}

		vocab := models.Vocabulary{}
		err := tx.Where(models.Vocabulary{Slug: "foaf"}).
			Attrs(models.Vocabulary{
				Name:        "Friend of a friend",
				Description: "The Friend of a Friend (FOAF) RDF vocabulary, described using W3C RDF Schema and the Web Ontology Language.",
				Link:        "http://xmlns.com/foaf/spec/index.rdf",
			}).
			FirstOrCreate(&vocab).Error
		if err != nil {
			return err
		}
		if err := tx.Model(&vocab).Association("Contributors").Replace(&users[0]); err != nil {
			return err
		}

		property := models.Property{}
		if err := tx.Where(models.Property{VocabID: vocab.ID, Slug: "name"}).
			Attrs(models.Property{
				Name:        "name",
				Description: "A name for some thing.",
			}).
			FirstOrCreate(&property).Error; err != nil {
			return err
		}

		class := models.RdfClass{}
		return tx.Where(models.RdfClass{VocabID: vocab.ID, Slug: "Agent"}).
			Attrs(models.RdfClass{
				Name:        "Agent",
				Description: "An agent (eg. person, group, software or physical artifact).",
			}).
			FirstOrCreate(&class).Error
	})
}
