package services

import (
	"time"

	"github.com/collabtrack/collabtrack/internal/models"
	"github.com/collabtrack/collabtrack/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SweepExpiredInvites marks pending invites past their expiry as expired.
// Returns the number of invites swept.
func SweepExpiredInvites(db *gorm.DB) (int64, error) {
	result := db.Model(&models.ProjectInvite{}).
		Where("status = ? AND expires_at < ?", models.InviteStatusPending, time.Now()).
		Update("status", models.InviteStatusExpired)
	return result.RowsAffected, result.Error
}

// StartInviteSweeper runs the expired-invite sweep once at startup and
// then every night at 02:00.
func StartInviteSweeper(db *gorm.DB) *cron.Cron {
	sweep := func() {
		swept, err := SweepExpiredInvites(db)
		if err != nil {
			logger.Error().Err(err).Msg("invite sweep failed")
			return
		}
		if swept > 0 {
			logger.Info().Int64("swept", swept).Msg("expired project invites")
		}
	}

	sweep()

	c := cron.New()
	c.AddFunc("0 2 * * *", sweep)
	c.Start()
	return c
}
