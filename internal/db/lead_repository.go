package db

import (
	"github.com/coldtrackhq/coldtrack/internal/models"
	"gorm.io/gorm"
)

type LeadRepository struct {
	database *gorm.DB
}

func NewLeadRepository(database *gorm.DB) *LeadRepository {
	return &LeadRepository{database: database}
}

func (repo *LeadRepository) FindByIDAndUser(leadID uint, userID uint) (models.ExtensionLead, bool, error) {
	var lead models.ExtensionLead
	result := repo.database.
		Where("id = ? AND user_id = ?", leadID, userID).
		Limit(1).
		Find(&lead)
	if result.Error != nil {
		return models.ExtensionLead{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.ExtensionLead{}, false, nil
	}
	return lead, true, nil
}

func (repo *LeadRepository) ListByUser(userID uint) ([]models.ExtensionLead, error) {
	leads := make([]models.ExtensionLead, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (repo *LeadRepository) Create(lead *models.ExtensionLead) error {
	return repo.database.Create(lead).Error
}

func (repo *LeadRepository) Save(lead *models.ExtensionLead) error {
	return repo.database.Save(lead).Error
}

func (repo *LeadRepository) DeleteByIDAndUser(leadID uint, userID uint) (bool, error) {
	result := repo.database.
		Where("id = ? AND user_id = ?", leadID, userID).
		Delete(&models.ExtensionLead{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// PromoteInto merges the prepared outreach candidate into the user's
// records and deletes the source lead, atomically. The lead must belong to
// the candidate's user; a lead already deleted by a concurrent promotion
// rolls the merge back.
func (repo *LeadRepository) PromoteInto(leadID uint, candidate *models.Outreach, fallbackStatus string) (models.Outreach, bool, error) {
	var promoted models.Outreach
	var didMerge bool
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		record, wasMerge, err := createOrMergeOutreachTx(tx, candidate, fallbackStatus)
		if err != nil {
			return err
		}

		result := tx.
			Where("id = ? AND user_id = ?", leadID, candidate.UserID).
			Delete(&models.ExtensionLead{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		promoted = record
		didMerge = wasMerge
		return nil
	})
	if err != nil {
		return models.Outreach{}, false, err
	}
	return promoted, didMerge, nil
}
