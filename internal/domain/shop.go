package domain

import (
	"fmt"
	"regexp"
	"time"
)

// RedactedToken replaces the access token of an uninstalled shop.
const RedactedToken = "{REDACTED}"

var uninstalledDomainPattern = regexp.MustCompile(`_deleted_\d{14}$`)

// Shop is a tenant: one installed Shopify store. It owns every product,
// variant and collection row in storage (unique per shop + shopify_uuid).
type Shop struct {
	ID            string
	Domain        string
	AccessToken   string
	UninstalledAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// APISession is the per-shop credential pair used for Admin API calls.
type APISession struct {
	Shop        string
	AccessToken string
}

// Session derives the API session for this shop.
func (s *Shop) Session() APISession {
	return APISession{Shop: s.Domain, AccessToken: s.AccessToken}
}

// Uninstall soft-deletes the shop: the token is redacted and the domain
// is suffixed so the unique domain index stays free for a reinstall.
// Shop rows are never hard-deleted here.
func (s *Shop) Uninstall(now time.Time) {
	s.UninstalledAt = &now
	s.Domain = fmt.Sprintf("%s_deleted_%s", s.Domain, now.UTC().Format("20060102150405"))
	s.AccessToken = RedactedToken
}

// Uninstalled reports whether the shop went through Uninstall.
func (s *Shop) Uninstalled() bool {
	return uninstalledDomainPattern.MatchString(s.Domain)
}

// Reinstall restores a previously uninstalled shop under its original
// domain with a fresh access token.
func (s *Shop) Reinstall(domain, accessToken string) {
	s.Domain = domain
	s.AccessToken = accessToken
	s.UninstalledAt = nil
}
