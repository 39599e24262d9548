package database

import (
	"context"

	"gorm.io/gorm"
)

// Pinger reports store reachability for the health endpoint
type Pinger struct {
	db *gorm.DB
}

// NewPinger creates a new database pinger
func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

// HealthCheck returns true if the database answers a ping
func (p *Pinger) HealthCheck(ctx context.Context) bool {
	sqlDB, err := p.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
