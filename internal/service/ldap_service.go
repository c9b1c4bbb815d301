package service

import (
	"fmt"
	"net"
	"time"

	"github.com/go-ldap/ldap/v3"

	"game-portal-cms/internal/dto"
	"game-portal-cms/internal/pkg/config"
	"game-portal-cms/pkg/constants"
	pkgErrors "game-portal-cms/pkg/errors"
)

const ldapDialTimeout = 5 * time.Second

type LDAPService interface {
	Authenticate(username, password string) (*dto.UserInfo, error)
}

type ldapService struct {
	cfg *config.LDAPConfig
}

func NewLDAPService(cfg *config.LDAPConfig) LDAPService {
	return &ldapService{
		cfg: cfg,
	}
}

// Authenticate 先用服务账号查找用户 DN，再以用户密码绑定
func (s *ldapService) Authenticate(username, password string) (*dto.UserInfo, error) {
	if !s.cfg.Enabled {
		return nil, pkgErrors.New(pkgErrors.CodeAuthError, "LDAP认证未启用")
	}
	if password == "" {
		return nil, pkgErrors.ErrInvalidCredentials
	}

	conn, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	entry, err := s.searchUser(conn, username)
	if err != nil {
		return nil, err
	}

	if err := conn.Bind(entry.DN, password); err != nil {
		return nil, pkgErrors.ErrInvalidCredentials
	}

	displayName := entry.GetAttributeValue(s.cfg.Attributes.DisplayName)
	if displayName == "" {
		displayName = username
	}
	return &dto.UserInfo{
		Username:    username,
		Email:       entry.GetAttributeValue(s.cfg.Attributes.Email),
		DisplayName: displayName,
		AuthType:    constants.AuthTypeLDAP,
	}, nil
}

func (s *ldapService) connect() (*ldap.Conn, error) {
	scheme := "ldap"
	if s.cfg.UseSSL {
		scheme = "ldaps"
	}
	url := fmt.Sprintf("%s://%s:%d", scheme, s.cfg.Host, s.cfg.Port)

	conn, err := ldap.DialURL(url, ldap.DialWithDialer(&net.Dialer{Timeout: ldapDialTimeout}))
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeAuthError, "LDAP连接失败", err)
	}

	if err := conn.Bind(s.cfg.BindDN, s.cfg.BindPassword); err != nil {
		conn.Close()
		return nil, pkgErrors.Wrap(pkgErrors.CodeAuthError, "LDAP绑定失败", err)
	}

	return conn, nil
}

func (s *ldapService) searchUser(conn *ldap.Conn, username string) (*ldap.Entry, error) {
	searchRequest := ldap.NewSearchRequest(
		s.cfg.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		int(ldapDialTimeout.Seconds()),
		false,
		fmt.Sprintf(s.cfg.UserFilter, ldap.EscapeFilter(username)),
		[]string{s.cfg.Attributes.Username, s.cfg.Attributes.Email, s.cfg.Attributes.DisplayName},
		nil,
	)

	result, err := conn.Search(searchRequest)
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeAuthError, "LDAP搜索失败", err)
	}

	switch len(result.Entries) {
	case 0:
		return nil, pkgErrors.ErrInvalidCredentials
	case 1:
		return result.Entries[0], nil
	default:
		return nil, pkgErrors.New(pkgErrors.CodeAuthError, "找到多个匹配的用户")
	}
}
