package models

import (
	"fmt"
	"strconv"

	"github.com/collabtrack/collabtrack/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Project{},
		&ProjectMember{},
		&ProjectInvite{},
		&Task{},
		&Comment{},
		&Notification{},
		&Attachment{},
		&TimeEntry{},
		&RefreshToken{},
		&SystemConfig{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates default system configs if not present. The YAML
// LDAP section provides the initial values; once seeded, the database-backed
// settings are authoritative and editable over the admin API.
func SeedDefaultData(ldap *config.LDAPConfig) error {
	if ldap == nil {
		ldap = &config.LDAPConfig{Port: 389, UserFilter: "(mail=%s)"}
	}

	defaultConfigs := []SystemConfig{
		{Key: "access_token_expire_hours", Value: "24", Type: "int", Group: "auth", Label: "Access Token Expiry (hours)"},
		{Key: "refresh_token_expire_hours", Value: "168", Type: "int", Group: "auth", Label: "Refresh Token Expiry (hours)"},
		{Key: "invite_expire_days", Value: "7", Type: "int", Group: "auth", Label: "Project Invite Expiry (days)"},
		{Key: "ldap_enabled", Value: strconv.FormatBool(ldap.Enabled), Type: "bool", Group: "ldap", Label: "Enable LDAP Authentication"},
		{Key: "ldap_host", Value: ldap.Host, Type: "string", Group: "ldap", Label: "LDAP Server Host"},
		{Key: "ldap_port", Value: strconv.Itoa(ldap.Port), Type: "int", Group: "ldap", Label: "LDAP Server Port"},
		{Key: "ldap_base_dn", Value: ldap.BaseDN, Type: "string", Group: "ldap", Label: "LDAP Base DN"},
		{Key: "ldap_bind_dn", Value: ldap.BindDN, Type: "string", Group: "ldap", Label: "LDAP Bind DN"},
		{Key: "ldap_bind_password", Value: ldap.BindPassword, Type: "string", Group: "ldap", Label: "LDAP Bind Password"},
		{Key: "ldap_user_filter", Value: ldap.UserFilter, Type: "string", Group: "ldap", Label: "LDAP User Filter"},
		{Key: "ldap_use_ssl", Value: strconv.FormatBool(ldap.UseSSL), Type: "bool", Group: "ldap", Label: "Use SSL/TLS"},
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
	}

	for _, cfg := range defaultConfigs {
		var count int64
		DB.Model(&SystemConfig{}).Where("`key` = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
