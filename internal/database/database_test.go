package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestApplyDefaults_NilOptions(t *testing.T) {
	opts := applyDefaults(nil)

	assert.Equal(t, logger.Error, opts.LogLevel)
	assert.Equal(t, 20, opts.MaxOpenConns)
	assert.Equal(t, 10, opts.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, opts.ConnMaxLifetime)
	assert.Equal(t, 10*time.Minute, opts.ConnMaxIdleTime)
	assert.False(t, opts.SkipMigrate)
}

func TestApplyDefaults_SkipMigrateSurvives(t *testing.T) {
	opts := applyDefaults(&Options{SkipMigrate: true})

	assert.True(t, opts.SkipMigrate)
	assert.Equal(t, 20, opts.MaxOpenConns)
}

func TestApplyDefaults_ExplicitValuesKept(t *testing.T) {
	opts := applyDefaults(&Options{MaxOpenConns: 5, ConnMaxLifetime: time.Minute})

	assert.Equal(t, 5, opts.MaxOpenConns)
	assert.Equal(t, time.Minute, opts.ConnMaxLifetime)
}
