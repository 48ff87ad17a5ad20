package services

import (
	"crypto/tls"
	"fmt"
	"strconv"

	"github.com/go-ldap/ldap/v3"
	"gorm.io/gorm"
)

type LDAPService struct {
	configSvc *SystemConfigService
}

func NewLDAPService(db *gorm.DB) *LDAPService {
	return &LDAPService{configSvc: NewSystemConfigService(db)}
}

func (s *LDAPService) IsEnabled() bool {
	return s.configSvc.GetWithDefault("ldap_enabled", "false") == "true"
}

// Authenticate authenticates a user against LDAP by email.
func (s *LDAPService) Authenticate(email, password string) (*LDAPUser, error) {
	if !s.IsEnabled() {
		return nil, fmt.Errorf("LDAP is not enabled")
	}

	host := s.configSvc.GetWithDefault("ldap_host", "")
	port, _ := strconv.Atoi(s.configSvc.GetWithDefault("ldap_port", "389"))
	baseDN := s.configSvc.GetWithDefault("ldap_base_dn", "")
	bindDN := s.configSvc.GetWithDefault("ldap_bind_dn", "")
	bindPassword := s.configSvc.GetWithDefault("ldap_bind_password", "")
	userFilter := s.configSvc.GetWithDefault("ldap_user_filter", "(mail=%s)")
	useSSL := s.configSvc.GetWithDefault("ldap_use_ssl", "false") == "true"

	// Connect to LDAP server
	addr := fmt.Sprintf("%s:%d", host, port)
	var conn *ldap.Conn
	var err error

	if useSSL {
		conn, err = ldap.DialTLS("tcp", addr, &tls.Config{InsecureSkipVerify: true})
	} else {
		conn, err = ldap.Dial("tcp", addr)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}
	defer conn.Close()

	// Bind with service account (if configured)
	if bindDN != "" {
		err = conn.Bind(bindDN, bindPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to bind with service account: %w", err)
		}
	}

	// Search for user
	searchFilter := fmt.Sprintf(userFilter, ldap.EscapeFilter(email))
	searchRequest := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		searchFilter,
		[]string{"dn", "cn", "mail", "uid", "sAMAccountName"},
		nil,
	)

	result, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("LDAP search failed: %w", err)
	}

	if len(result.Entries) == 0 {
		return nil, fmt.Errorf("user not found in LDAP")
	}

	if len(result.Entries) > 1 {
		return nil, fmt.Errorf("multiple users found in LDAP")
	}

	userDN := result.Entries[0].DN

	// Bind as user to verify password
	err = conn.Bind(userDN, password)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	// Extract user info
	entry := result.Entries[0]
	user := &LDAPUser{
		DN:    userDN,
		Email: entry.GetAttributeValue("mail"),
		Name:  entry.GetAttributeValue("cn"),
	}

	if user.Email == "" {
		user.Email = email
	}

	return user, nil
}

type LDAPUser struct {
	DN    string
	Email string
	Name  string
}
