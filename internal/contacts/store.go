package contacts

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"whatsapp-crm/internal/models"
)

// GormStore is the gorm-backed contact store. It satisfies the importer's
// Store interface and carries the CRUD surface the API handlers use.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByPhones(orgID string, phones []string) ([]models.Contact, error) {
	var contacts []models.Contact
	if len(phones) == 0 {
		return contacts, nil
	}
	err := s.db.Where("org_id = ? AND phone IN ?", orgID, phones).Find(&contacts).Error
	if err != nil {
		return nil, errors.Wrap(err, "find contacts by phones")
	}
	return contacts, nil
}

func (s *GormStore) InsertBatch(rows []models.Contact) error {
	if len(rows) == 0 {
		return nil
	}
	if err := s.db.Create(&rows).Error; err != nil {
		return errors.Wrap(err, "insert contact batch")
	}
	return nil
}

func (s *GormStore) UpdateByID(id uint, fields map[string]interface{}) error {
	err := s.db.Model(&models.Contact{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return errors.Wrap(err, "update contact")
	}
	return nil
}

func (s *GormStore) List(orgID string) ([]models.Contact, error) {
	var contacts []models.Contact
	err := s.db.Where("org_id = ?", orgID).Order("created_at DESC").Find(&contacts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list contacts")
	}
	return contacts, nil
}

func (s *GormStore) Get(orgID string, id uint) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.Where("org_id = ? AND id = ?", orgID, id).First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *GormStore) Create(contact *models.Contact) error {
	if err := s.db.Create(contact).Error; err != nil {
		return errors.Wrap(err, "create contact")
	}
	return nil
}

func (s *GormStore) Delete(orgID string, id uint) (int64, error) {
	result := s.db.Where("org_id = ?", orgID).Delete(&models.Contact{}, id)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "delete contact")
	}
	return result.RowsAffected, nil
}

// Forget performs a compliance erasure: the contact row plus every stored
// message exchanged with that phone number.
func (s *GormStore) Forget(orgID string, id uint) error {
	contact, err := s.Get(orgID, id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		waID := contact.Phone
		if err := tx.Where("org_id = ? AND (wa_id = ? OR sender = ?)", orgID, waID, waID).
			Delete(&models.Message{}).Error; err != nil {
			return errors.Wrap(err, "purge messages")
		}
		if err := tx.Delete(&models.Contact{}, contact.ID).Error; err != nil {
			return errors.Wrap(err, "delete contact")
		}
		return nil
	})
}

// UpsertFromWhatsApp creates a contact for an inbound message sender if one
// does not exist yet; the name is only filled when currently empty.
func (s *GormStore) UpsertFromWhatsApp(orgID, phone, name, source string) error {
	var contact models.Contact
	err := s.db.Where("org_id = ? AND phone = ?", orgID, phone).First(&contact).Error
	if err == gorm.ErrRecordNotFound {
		contact = models.Contact{
			OrgID:        orgID,
			Phone:        phone,
			Name:         name,
			Tags:         MarshalTags(nil),
			OptedIn:      true,
			CustomFields: marshalCustom(nil),
			Source:       source,
		}
		return s.Create(&contact)
	}
	if err != nil {
		return errors.Wrap(err, "lookup contact")
	}
	if contact.Name == "" && name != "" {
		return s.UpdateByID(contact.ID, map[string]interface{}{"name": name})
	}
	return nil
}
