package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	LoadConfig()

	assert.Equal(t, "Asia/Seoul", AppConfig.DefaultTimezone)
	assert.Equal(t, "00:00", AppConfig.WorkHoursStart)
	assert.Equal(t, "23:59", AppConfig.WorkHoursEnd)
	assert.Equal(t, 30, AppConfig.MinSlotMinutes)

	// Each concern gets its own Redis database.
	assert.NotEqual(t, AppConfig.RedisCacheDB, AppConfig.RedisAuthDB)
	assert.NotEqual(t, AppConfig.RedisAuthDB, AppConfig.RedisResyncQueueDB)
}

func TestIsProduction(t *testing.T) {
	old := AppConfig.Env
	defer func() { AppConfig.Env = old }()

	AppConfig.Env = "development"
	assert.False(t, IsProduction())

	AppConfig.Env = "production"
	assert.True(t, IsProduction())
}
