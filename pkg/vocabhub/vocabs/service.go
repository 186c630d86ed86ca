// Package vocabs implements vocabulary management: CRUD over vocabularies,
// RDF classes and properties, contributor bookkeeping, and the import
// pipeline that materializes an external ontology as local entities.
package vocabs

import (
	"context"
	"errors"
	"log"

	"github.com/solidhub/vocabhub/pkg/vocabhub/models"
	"github.com/solidhub/vocabhub/pkg/vocabhub/ontology"
	"github.com/solidhub/vocabhub/pkg/vocabhub/slug"
	"gorm.io/gorm"
)

// listLimit caps the vocabulary listing page size.
const listLimit = 10

var (
	// ErrVocabNotFound is returned when creating a class or property under
	// a vocabulary slug that does not exist.
	ErrVocabNotFound = errors.New("vocabulary not found")
	// ErrVocabExists is returned when creating a vocabulary whose slug is
	// already taken.
	ErrVocabExists = errors.New("vocabulary already exists")
)

// Extractor fetches an external RDF document and yields a vocabulary
// description, or nil when the document has no extractable ontology.
type Extractor interface {
	Extract(ctx context.Context, link string) (*ontology.Description, error)
}

// Service implements all vocabulary operations. Each mutating call runs as
// a single transaction; lookups resolve "not found" to a nil result rather
// than an error.
type Service struct {
	db        *gorm.DB
	extractor Extractor
}

// NewService creates a Service on top of the given database handle.
func NewService(db *gorm.DB, extractor Extractor) *Service {
	return &Service{db: db, extractor: extractor}
}

// PropertyParams are the inputs for creating a property. Domain and Range
// name classes of the same vocabulary by slug; unresolvable references are
// dropped.
type PropertyParams struct {
	Name        string
	Slug        string
	Description string
	Domain      string
	Range       string
	Creator     string // acting user's webId
}

// ClassParams are the inputs for creating a class. Inherits names another
// class of the same vocabulary by slug.
type ClassParams struct {
	Name        string
	Slug        string
	Description string
	Inherits    string
	Creator     string // acting user's webId
}

// VocabularyUpdate is a partial update; nil fields are left unchanged.
type VocabularyUpdate struct {
	Name        *string
	Description *string
	Slug        *string
	Link        *string
}

// PropertyUpdate is a partial update; Domain/Range name classes by slug,
// an empty string clears the reference.
type PropertyUpdate struct {
	Name        *string
	Slug        *string
	Description *string
	Domain      *string
	Range       *string
}

// ClassUpdate is a partial update; Inherits names a class by slug, an
// empty string clears the reference.
type ClassUpdate struct {
	Name        *string
	Slug        *string
	Description *string
	Inherits    *string
}

// GetAll returns up to listLimit vocabularies.
func (s *Service) GetAll(ctx context.Context) ([]models.Vocabulary, error) {
	var vocabularies []models.Vocabulary
	err := s.db.WithContext(ctx).Limit(listLimit).Find(&vocabularies).Error
	return vocabularies, err
}

// GetOne returns the vocabulary with the given slug, with its contributor
// set loaded, or nil when absent.
func (s *Service) GetOne(ctx context.Context, vocabSlug string) (*models.Vocabulary, error) {
	var v models.Vocabulary
	err := s.db.WithContext(ctx).
		Preload("Contributors").
		Where("slug = ?", vocabSlug).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetProperties returns all properties of the named vocabulary.
func (s *Service) GetProperties(ctx context.Context, vocabSlug string) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.WithContext(ctx).
		Joins("JOIN vocabularies ON vocabularies.id = properties.vocab_id").
		Where("vocabularies.slug = ?", vocabSlug).
		Find(&properties).Error
	return properties, err
}

// GetClasses returns all classes of the named vocabulary.
func (s *Service) GetClasses(ctx context.Context, vocabSlug string) ([]models.RdfClass, error) {
	var classes []models.RdfClass
	err := s.db.WithContext(ctx).
		Joins("JOIN vocabularies ON vocabularies.id = rdf_classes.vocab_id").
		Where("vocabularies.slug = ?", vocabSlug).
		Find(&classes).Error
	return classes, err
}

// GetProperty returns one property scoped to a vocabulary, or nil.
func (s *Service) GetProperty(ctx context.Context, vocabSlug, propSlug string) (*models.Property, error) {
	var p models.Property
	err := s.db.WithContext(ctx).
		Joins("JOIN vocabularies ON vocabularies.id = properties.vocab_id").
		Where("vocabularies.slug = ? AND properties.slug = ?", vocabSlug, propSlug).
		Preload("Vocab.Contributors").
		Preload("Domain").
		Preload("Range").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetClass returns one class scoped to a vocabulary, or nil.
func (s *Service) GetClass(ctx context.Context, vocabSlug, classSlug string) (*models.RdfClass, error) {
	var c models.RdfClass
	err := s.db.WithContext(ctx).
		Joins("JOIN vocabularies ON vocabularies.id = rdf_classes.vocab_id").
		Where("vocabularies.slug = ? AND rdf_classes.slug = ?", vocabSlug, classSlug).
		Preload("Vocab.Contributors").
		Preload("Inherits").
		Preload("Properties").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create creates a vocabulary. The slug defaults to the camel-cased name
// when not supplied. Returns ErrVocabExists on a slug collision.
func (s *Service) Create(ctx context.Context, name, creator, slugOverride string) (*models.Vocabulary, error) {
	vocabSlug := slugOverride
	if vocabSlug == "" {
		vocabSlug = slug.Normalize(name, slug.Camel)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Vocabulary{}).Where("slug = ?", vocabSlug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrVocabExists
		}
		v := models.Vocabulary{Name: name, Slug: vocabSlug}
		if err := tx.Create(&v).Error; err != nil {
			return err
		}
		return addContributor(tx, vocabSlug, creator)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOne(ctx, vocabSlug)
}

// CreateFromLink imports a vocabulary from an external ontology document.
// It returns (nil, nil) both when nothing extractable is found and when
// the extracted slug is already taken; the two cases are logged apart but
// indistinguishable to callers.
func (s *Service) CreateFromLink(ctx context.Context, link, creator string) (*models.Vocabulary, error) {
	desc, err := s.extractor.Extract(ctx, link)
	if err != nil {
		log.Printf("vocabs: extraction of %s failed: %v", link, err)
		return nil, nil
	}
	if desc == nil {
		log.Printf("vocabs: no extractable ontology at %s", link)
		return nil, nil
	}

	var imported bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Vocabulary{}).Where("slug = ?", desc.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Printf("vocabs: %s already imported as %q", link, desc.Slug)
			return nil
		}

		v := models.Vocabulary{Name: desc.Name, Slug: desc.Slug, Link: desc.Link}
		if err := tx.Create(&v).Error; err != nil {
			return err
		}

		for _, c := range desc.Classes {
			class := models.RdfClass{
				VocabID:     v.ID,
				Slug:        c.Slug,
				Name:        c.Name,
				Description: c.Description,
			}
			if c.Inherits != "" {
				if parent := resolveClassRef(tx, c.Inherits); parent != nil {
					class.InheritsID = &parent.ID
				}
			}
			if err := tx.Create(&class).Error; err != nil {
				return err
			}
		}

		for _, p := range desc.Properties {
			property := models.Property{
				VocabID:     v.ID,
				Slug:        p.Slug,
				Name:        p.Name,
				Description: p.Description,
			}
			if p.Domain != "" {
				if domain := resolveClassRef(tx, p.Domain); domain != nil {
					property.DomainID = &domain.ID
				}
			}
			if p.Range != "" {
				if rng := resolveClassRef(tx, p.Range); rng != nil {
					property.RangeID = &rng.ID
				}
			}
			if err := tx.Create(&property).Error; err != nil {
				return err
			}
		}

		if err := addContributor(tx, desc.Slug, creator); err != nil {
			return err
		}
		imported = true
		return nil
	})
	if err != nil || !imported {
		return nil, err
	}
	return s.GetOne(ctx, desc.Slug)
}

// CreateProperty creates a property under the named vocabulary. The slug
// defaults to the camel-cased name. Returns ErrVocabNotFound when the
// vocabulary does not exist.
func (s *Service) CreateProperty(ctx context.Context, vocabSlug string, params PropertyParams) (*models.Property, error) {
	propSlug := params.Slug
	if propSlug == "" {
		propSlug = slug.Normalize(params.Name, slug.Camel)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := vocabBySlug(tx, vocabSlug)
		if err != nil {
			return err
		}
		if v == nil {
			return ErrVocabNotFound
		}
		p := models.Property{
			VocabID:     v.ID,
			Slug:        propSlug,
			Name:        params.Name,
			Description: params.Description,
		}
		if params.Domain != "" {
			if c := classBySlug(tx, v.ID, params.Domain); c != nil {
				p.DomainID = &c.ID
			}
		}
		if params.Range != "" {
			if c := classBySlug(tx, v.ID, params.Range); c != nil {
				p.RangeID = &c.ID
			}
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		return addContributor(tx, vocabSlug, params.Creator)
	})
	if err != nil {
		return nil, err
	}
	return s.GetProperty(ctx, vocabSlug, propSlug)
}

// CreateClass creates a class under the named vocabulary. The slug
// defaults to the pascal-cased name. Returns ErrVocabNotFound when the
// vocabulary does not exist.
func (s *Service) CreateClass(ctx context.Context, vocabSlug string, params ClassParams) (*models.RdfClass, error) {
	classSlug := params.Slug
	if classSlug == "" {
		classSlug = slug.Normalize(params.Name, slug.Pascal)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := vocabBySlug(tx, vocabSlug)
		if err != nil {
			return err
		}
		if v == nil {
			return ErrVocabNotFound
		}
		c := models.RdfClass{
			VocabID:     v.ID,
			Slug:        classSlug,
			Name:        params.Name,
			Description: params.Description,
		}
		if params.Inherits != "" {
			if parent := classBySlug(tx, v.ID, params.Inherits); parent != nil {
				c.InheritsID = &parent.ID
			}
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		return addContributor(tx, vocabSlug, params.Creator)
	})
	if err != nil {
		return nil, err
	}
	return s.GetClass(ctx, vocabSlug, classSlug)
}

// Update applies a partial update to a vocabulary. The acting user becomes
// a contributor even when nothing changed. Returns nil when the slug does
// not resolve.
func (s *Service) Update(ctx context.Context, vocabSlug, webID string, params VocabularyUpdate) (*models.Vocabulary, error) {
	updates := map[string]interface{}{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.Link != nil {
		updates["link"] = *params.Link
	}
	effective := vocabSlug
	if params.Slug != nil {
		updates["slug"] = *params.Slug
		effective = *params.Slug
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Vocabulary{}).Where("slug = ?", vocabSlug).Updates(updates).Error; err != nil {
				return err
			}
		}
		return addContributor(tx, effective, webID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOne(ctx, effective)
}

// UpdateProperty applies a partial update to one property of a vocabulary.
func (s *Service) UpdateProperty(ctx context.Context, vocabSlug, propSlug, webID string, params PropertyUpdate) (*models.Property, error) {
	effective := propSlug
	if params.Slug != nil {
		effective = *params.Slug
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := vocabBySlug(tx, vocabSlug)
		if err != nil || v == nil {
			return err
		}
		updates := map[string]interface{}{}
		if params.Name != nil {
			updates["name"] = *params.Name
		}
		if params.Slug != nil {
			updates["slug"] = *params.Slug
		}
		if params.Description != nil {
			updates["description"] = *params.Description
		}
		if params.Domain != nil {
			updates["domain_id"] = classRefID(tx, v.ID, *params.Domain)
		}
		if params.Range != nil {
			updates["range_id"] = classRefID(tx, v.ID, *params.Range)
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Property{}).
				Where("vocab_id = ? AND slug = ?", v.ID, propSlug).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return addContributor(tx, vocabSlug, webID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetProperty(ctx, vocabSlug, effective)
}

// UpdateClass applies a partial update to one class of a vocabulary.
func (s *Service) UpdateClass(ctx context.Context, vocabSlug, classSlug, webID string, params ClassUpdate) (*models.RdfClass, error) {
	effective := classSlug
	if params.Slug != nil {
		effective = *params.Slug
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := vocabBySlug(tx, vocabSlug)
		if err != nil || v == nil {
			return err
		}
		updates := map[string]interface{}{}
		if params.Name != nil {
			updates["name"] = *params.Name
		}
		if params.Slug != nil {
			updates["slug"] = *params.Slug
		}
		if params.Description != nil {
			updates["description"] = *params.Description
		}
		if params.Inherits != nil {
			updates["inherits_id"] = classRefID(tx, v.ID, *params.Inherits)
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.RdfClass{}).
				Where("vocab_id = ? AND slug = ?", v.ID, classSlug).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return addContributor(tx, vocabSlug, webID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetClass(ctx, vocabSlug, effective)
}

// Delete removes a vocabulary with all of its classes, properties and
// contributor associations. Always reports true: deleting a slug that
// never existed is not an error.
func (s *Service) Delete(ctx context.Context, vocabSlug string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := vocabBySlug(tx, vocabSlug)
		if err != nil || v == nil {
			return err
		}
		if err := tx.Model(v).Association("Contributors").Clear(); err != nil {
			return err
		}
		if err := tx.Where("vocab_id = ?", v.ID).Delete(&models.Property{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vocab_id = ?", v.ID).Delete(&models.RdfClass{}).Error; err != nil {
			return err
		}
		return tx.Delete(v).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteProperty removes one property of a vocabulary; always true.
func (s *Service) DeleteProperty(ctx context.Context, vocabSlug, propSlug string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := vocabBySlug(tx, vocabSlug)
		if err != nil || v == nil {
			return err
		}
		return tx.Where("vocab_id = ? AND slug = ?", v.ID, propSlug).Delete(&models.Property{}).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteClass removes one class of a vocabulary, clearing any domain,
// range or inheritance references to it first; always true.
func (s *Service) DeleteClass(ctx context.Context, vocabSlug, classSlug string) (bool, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := vocabBySlug(tx, vocabSlug)
		if err != nil || v == nil {
			return err
		}
		c := classBySlug(tx, v.ID, classSlug)
		if c == nil {
			return nil
		}
		if err := tx.Model(&models.Property{}).Where("domain_id = ?", c.ID).Update("domain_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Property{}).Where("range_id = ?", c.ID).Update("range_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.RdfClass{}).Where("inherits_id = ?", c.ID).Update("inherits_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(c).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// addContributor adds the user with the given webId to the vocabulary's
// contributor set. The user row is created on first reference; membership
// is idempotent. A vocabulary that does not resolve is a no-op.
func addContributor(tx *gorm.DB, vocabSlug, webID string) error {
	if webID == "" {
		return nil
	}
	v, err := vocabBySlug(tx, vocabSlug)
	if err != nil || v == nil {
		return err
	}
	var user models.User
	if err := tx.Where(models.User{WebID: webID}).FirstOrCreate(&user).Error; err != nil {
		return err
	}
	var n int64
	if err := tx.Table("vocabulary_contributors").
		Where("vocabulary_id = ? AND user_id = ?", v.ID, user.ID).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return tx.Model(v).Association("Contributors").Append(&user)
}

func vocabBySlug(tx *gorm.DB, vocabSlug string) (*models.Vocabulary, error) {
	var v models.Vocabulary
	err := tx.Where("slug = ?", vocabSlug).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func classBySlug(tx *gorm.DB, vocabID uint, classSlug string) *models.RdfClass {
	var c models.RdfClass
	if err := tx.Where("vocab_id = ? AND slug = ?", vocabID, classSlug).First(&c).Error; err != nil {
		return nil
	}
	return &c
}

// classRefID resolves a class slug to an id for a reference column; ""
// and unresolvable slugs clear the reference.
func classRefID(tx *gorm.DB, vocabID uint, classSlug string) interface{} {
	if classSlug == "" {
		return nil
	}
	if c := classBySlug(tx, vocabID, classSlug); c != nil {
		return c.ID
	}
	return nil
}

// resolveClassRef resolves a raw term URI from an imported document to a
// stored class: the namespace must equal some vocabulary's source link and
// the local name that vocabulary's class slug. Unresolvable references are
// dropped silently.
func resolveClassRef(tx *gorm.DB, uri string) *models.RdfClass {
	ns, local := ontology.SplitTerm(uri)
	if ns == "" || local == "" {
		return nil
	}
	var c models.RdfClass
	err := tx.Joins("JOIN vocabularies ON vocabularies.id = rdf_classes.vocab_id").
		Where("vocabularies.link = ? AND rdf_classes.slug = ?", ns, local).
		First(&c).Error
	if err != nil {
		return nil
	}
	return &c
}
