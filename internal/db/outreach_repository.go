package db

import (
	"strings"
	"time"

	"github.com/coldtrackhq/coldtrack/internal/models"
	"gorm.io/gorm"
)

type OutreachRepository struct {
	database *gorm.DB
}

func NewOutreachRepository(database *gorm.DB) *OutreachRepository {
	return &OutreachRepository{database: database}
}

// CompanyKey normalizes a company name into the merge key used for
// find-by-company lookups.
func CompanyKey(companyName string) string {
	return strings.ToLower(strings.TrimSpace(companyName))
}

func (repo *OutreachRepository) FindByIDAndUser(outreachID uint, userID uint) (models.Outreach, bool, error) {
	var record models.Outreach
	result := repo.database.
		Where("id = ? AND user_id = ?", outreachID, userID).
		Limit(1).
		Find(&record)
	if result.Error != nil {
		return models.Outreach{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Outreach{}, false, nil
	}
	return record, true, nil
}

func (repo *OutreachRepository) ListByUser(userID uint) ([]models.Outreach, error) {
	records := make([]models.Outreach, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *OutreachRepository) ListByUserAndCompany(userID uint, companyName string) ([]models.Outreach, error) {
	records := make([]models.Outreach, 0)
	if err := repo.database.
		Where("user_id = ? AND lower(trim(company_name)) = ?", userID, CompanyKey(companyName)).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListActiveByUser returns all records whose status keeps them eligible for
// follow-up tracking (closed-out statuses are filtered in SQL).
func (repo *OutreachRepository) ListActiveByUser(userID uint) ([]models.Outreach, error) {
	records := make([]models.Outreach, 0)
	if err := repo.database.
		Where("user_id = ? AND status NOT IN ?", userID, models.ClosedOutStatuses()).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (repo *OutreachRepository) CountCreatedInRange(userID uint, start time.Time, end time.Time) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Outreach{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateOrMerge looks up the user's record for the candidate's company and
// either appends the candidate's contacts to it (patching top-level fields
// only where the candidate carries non-empty values) or creates the
// candidate as a new record. The whole read-merge-write runs in one
// transaction so concurrent appends to the same company cannot drop
// contacts. The second return value reports whether an existing record was
// merged into.
func (repo *OutreachRepository) CreateOrMerge(candidate *models.Outreach, fallbackStatus string) (models.Outreach, bool, error) {
	var merged models.Outreach
	var didMerge bool
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		record, wasMerge, err := createOrMergeOutreachTx(tx, candidate, fallbackStatus)
		if err != nil {
			return err
		}
		merged = record
		didMerge = wasMerge
		return nil
	})
	if err != nil {
		return models.Outreach{}, false, err
	}
	return merged, didMerge, nil
}

// createOrMergeOutreachTx is shared with the lead promotion path, which
// needs the same merge inside its own transaction.
func createOrMergeOutreachTx(tx *gorm.DB, candidate *models.Outreach, fallbackStatus string) (models.Outreach, bool, error) {
	var existing models.Outreach
	result := tx.
		Where("user_id = ? AND lower(trim(company_name)) = ?", candidate.UserID, CompanyKey(candidate.CompanyName)).
		Order("id ASC").
		Limit(1).
		Find(&existing)
	if result.Error != nil {
		return models.Outreach{}, false, result.Error
	}

	if result.RowsAffected == 0 {
		if candidate.Status == "" {
			candidate.Status = fallbackStatus
		}
		if err := tx.Create(candidate).Error; err != nil {
			return models.Outreach{}, false, err
		}
		return *candidate, false, nil
	}

	existing.Contacts = append(existing.Contacts, candidate.Contacts...)
	if strings.TrimSpace(candidate.RoleTargeted) != "" {
		existing.RoleTargeted = candidate.RoleTargeted
	}
	if strings.TrimSpace(candidate.CompanyLink) != "" {
		existing.CompanyLink = candidate.CompanyLink
	}
	if strings.TrimSpace(candidate.Notes) != "" {
		existing.Notes = candidate.Notes
	}
	if candidate.Status != "" {
		existing.Status = candidate.Status
	}
	if err := tx.Save(&existing).Error; err != nil {
		return models.Outreach{}, false, err
	}
	return existing, true, nil
}

// Mutate loads the record scoped to its owner, applies mutate and saves the
// result, all inside one transaction. A missing or foreign record yields
// (zero, false, nil); errors returned by mutate roll the transaction back
// and surface unchanged.
func (repo *OutreachRepository) Mutate(outreachID uint, userID uint, mutate func(record *models.Outreach) error) (models.Outreach, bool, error) {
	var mutated models.Outreach
	found := false
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		var record models.Outreach
		result := tx.
			Where("id = ? AND user_id = ?", outreachID, userID).
			Limit(1).
			Find(&record)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		found = true

		if err := mutate(&record); err != nil {
			return err
		}
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		mutated = record
		return nil
	})
	if err != nil {
		return models.Outreach{}, false, err
	}
	if !found {
		return models.Outreach{}, false, nil
	}
	return mutated, true, nil
}

func (repo *OutreachRepository) DeleteByIDAndUser(outreachID uint, userID uint) (bool, error) {
	result := repo.database.
		Where("id = ? AND user_id = ?", outreachID, userID).
		Delete(&models.Outreach{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
