package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"github.com/smallbiznis/utilitydesk/internal/auth/password"
	"github.com/smallbiznis/utilitydesk/internal/config"
	utilitydomain "github.com/smallbiznis/utilitydesk/internal/utility/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultUtilityTypes = []utilitydomain.UtilityType{
	{ID: "UT-ELEC", Name: "electricity", Unit: "kWh"},
	{ID: "UT-WATER", Name: "water", Unit: "m3"},
	{ID: "UT-GAS", Name: "gas", Unit: "m3"},
}

// EnsureUtilityTypes seeds the standard utility types. Existing rows are kept.
func EnsureUtilityTypes(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	now := time.Now().UTC()
	rows := make([]utilitydomain.UtilityType, 0, len(defaultUtilityTypes))
	for _, item := range defaultUtilityTypes {
		item.CreatedAt = now
		rows = append(rows, item)
	}

	ctx := context.Background()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// EnsureAdmin creates the bootstrap administrator when a username and password
// are configured and no staff account with that username exists.
func EnsureAdmin(db *gorm.DB, cfg config.BootstrapConfig) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	username := strings.ToLower(strings.TrimSpace(cfg.AdminUsername))
	if username == "" || cfg.AdminPassword == "" {
		return nil
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&authdomain.Staff{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hashed, err := password.Hash(cfg.AdminPassword)
		if err != nil {
			return err
		}
		node, err := snowflake.NewNode(1)
		if err != nil {
			return err
		}

		fullName := strings.TrimSpace(cfg.AdminFullName)
		if fullName == "" {
			fullName = "Administrator"
		}
		now := time.Now().UTC()
		return tx.Create(&authdomain.Staff{
			ID:           authdomain.IDPrefix + node.Generate().String(),
			Username:     username,
			FullName:     fullName,
			Role:         authdomain.RoleAdmin,
			PasswordHash: hashed,
			CreatedAt:    now,
			UpdatedAt:    now,
		}).Error
	})
}
