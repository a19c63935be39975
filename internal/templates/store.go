package templates

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"whatsapp-crm/internal/models"
)

// Store is the local template catalog, synced from Meta. It also serves as
// the template-lookup collaborator for workflow validation.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) List(orgID string) ([]models.Template, error) {
	var tmpls []models.Template
	if err := s.db.Where("org_id = ?", orgID).Find(&tmpls).Error; err != nil {
		return nil, errors.Wrap(err, "list templates")
	}
	return tmpls, nil
}

func (s *Store) Upsert(tmpl *models.Template) error {
	if err := s.db.Save(tmpl).Error; err != nil {
		return errors.Wrap(err, "save template")
	}
	return nil
}

func (s *Store) TemplateExists(orgID, templateID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Template{}).
		Where("org_id = ? AND id = ?", orgID, templateID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "template lookup")
	}
	return count > 0, nil
}
