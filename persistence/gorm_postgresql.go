// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/starvault/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// The local store sees one writer; a small pool is plenty.
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.GormCard{},
		&models.GormProfile{},
		&models.GormSetting{},
	); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveCard upserts one card row for the owner.
func (p *GormPostgreSQL) SaveCard(owner string, card models.GameEvent, position int) error {
	var row models.GormCard
	result := p.db.Where("owner = ? AND card_id = ?", owner, card.ID).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row = models.GormCard{
			Owner:    owner,
			CardID:   card.ID,
			Position: position,
			Payload:  card,
		}
		return p.db.Create(&row).Error
	} else if result.Error != nil {
		return result.Error
	}

	row.Position = position
	row.Payload = card
	return p.db.Save(&row).Error
}

func (p *GormPostgreSQL) DeleteCard(owner, cardID string) error {
	return p.db.Where("owner = ? AND card_id = ?", owner, cardID).
		Delete(&models.GormCard{}).Error
}

// ReplaceCards drops the owner's snapshot and writes the given list in
// order, all inside one transaction.
func (p *GormPostgreSQL) ReplaceCards(owner string, cards []models.GameEvent) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner = ?", owner).Delete(&models.GormCard{}).Error; err != nil {
			return err
		}
		for i, card := range cards {
			row := models.GormCard{
				Owner:    owner,
				CardID:   card.ID,
				Position: i,
				Payload:  card,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *GormPostgreSQL) LoadCards(owner string) ([]models.GameEvent, error) {
	var rows []models.GormCard
	if err := p.db.Where("owner = ?", owner).Order("position asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	cards := make([]models.GameEvent, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.Payload)
	}
	return cards, nil
}

func (p *GormPostgreSQL) SaveProfile(owner string, profile models.Profile) error {
	var row models.GormProfile
	result := p.db.Where("owner = ?", owner).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row = models.GormProfile{Owner: owner, Data: profile}
		return p.db.Create(&row).Error
	} else if result.Error != nil {
		return result.Error
	}

	row.Data = profile
	return p.db.Save(&row).Error
}

func (p *GormPostgreSQL) LoadProfile(owner string) (*models.Profile, error) {
	var row models.GormProfile
	if err := p.db.Where("owner = ?", owner).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	profile := row.Data
	return &profile, nil
}

func (p *GormPostgreSQL) SetSetting(owner, key, value string) error {
	var row models.GormSetting
	result := p.db.Where("owner = ? AND key = ?", owner, key).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row = models.GormSetting{Owner: owner, Key: key, Value: value}
		return p.db.Create(&row).Error
	} else if result.Error != nil {
		return result.Error
	}

	row.Value = value
	return p.db.Save(&row).Error
}

func (p *GormPostgreSQL) GetSetting(owner, key string) (string, error) {
	var row models.GormSetting
	if err := p.db.Where("owner = ? AND key = ?", owner, key).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRecordNotFound
		}
		return "", err
	}
	return row.Value, nil
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
