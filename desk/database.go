package main

import (
	"errors"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const tokenKey = "token"

func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&models.StoredValue{})
	return db, err
}

// dbTokenStore keeps the auth token in the local database so a restart does
// not force a new login.
type dbTokenStore struct {
	db *gorm.DB
}

func (s *dbTokenStore) Load() (string, error) {
	var v models.StoredValue
	err := s.db.Where(&models.StoredValue{Key: tokenKey}).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return v.Value, err
}

func (s *dbTokenStore) Save(token string) error {
	v := models.StoredValue{Key: tokenKey, Value: token}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&v).Error
}

func (s *dbTokenStore) Clear() error {
	return s.db.Where(&models.StoredValue{Key: tokenKey}).Delete(&models.StoredValue{}).Error
}
