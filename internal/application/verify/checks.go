package verify

import "strings"

const (
	ReasonDomainNotFound = "Domain not found"
	ReasonDisposable     = "Disposable email provider"
	ReasonRoleAccount    = "Role-based email"
)

// DefaultChecks returns the standard reputation chain in its fixed order:
// domain existence, then disposable provider, then role account.
func DefaultChecks() []Check {
	return []Check{
		NewDomainCheck(nil),
		NewDisposableCheck(nil),
		NewRoleAccountCheck(nil),
	}
}

// DomainCheck flags addresses whose domain does not exist. Existence is
// delegated to the injected func so callers can plug in DNS/MX lookups or a
// denylist; a nil func treats every domain as existing.
type DomainCheck struct {
	exists func(domain string) (bool, error)
}

func NewDomainCheck(exists func(domain string) (bool, error)) *DomainCheck {
	return &DomainCheck{exists: exists}
}

func (c *DomainCheck) Name() string { return "domain-existence" }

func (c *DomainCheck) Inspect(_, domain string) (Result, bool, error) {
	if c.exists == nil {
		return Result{}, false, nil
	}
	ok, err := c.exists(domain)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{Status: StatusInvalid, Reason: ReasonDomainNotFound}, true, nil
	}
	return Result{}, false, nil
}

// defaultDisposableDomains covers the common throwaway providers. Real
// deployments swap in a maintained denylist via NewDisposableCheck.
var defaultDisposableDomains = map[string]struct{}{
	"mailinator.com":     {},
	"guerrillamail.com":  {},
	"10minutemail.com":   {},
	"tempmail.com":       {},
	"temp-mail.org":      {},
	"throwawaymail.com":  {},
	"yopmail.com":        {},
	"getnada.com":        {},
	"trashmail.com":      {},
	"sharklasers.com":    {},
	"dispostable.com":    {},
	"maildrop.cc":        {},
	"mintemail.com":      {},
	"spamgourmet.com":    {},
	"mytemp.email":       {},
	"fakeinbox.com":      {},
	"mailnesia.com":      {},
	"emailondeck.com":    {},
	"burnermail.io":      {},
	"guerrillamail.info": {},
}

// DisposableCheck flags addresses at known throwaway providers as risky.
type DisposableCheck struct {
	domains map[string]struct{}
}

func NewDisposableCheck(domains map[string]struct{}) *DisposableCheck {
	if domains == nil {
		domains = defaultDisposableDomains
	}
	return &DisposableCheck{domains: domains}
}

func (c *DisposableCheck) Name() string { return "disposable-provider" }

func (c *DisposableCheck) Inspect(_, domain string) (Result, bool, error) {
	if _, ok := c.domains[domain]; ok {
		return Result{Status: StatusRisky, Reason: ReasonDisposable}, true, nil
	}
	return Result{}, false, nil
}

var defaultRolePrefixes = map[string]struct{}{
	"admin":      {},
	"info":       {},
	"support":    {},
	"sales":      {},
	"contact":    {},
	"help":       {},
	"billing":    {},
	"noreply":    {},
	"no-reply":   {},
	"postmaster": {},
	"webmaster":  {},
	"abuse":      {},
	"marketing":  {},
	"office":     {},
	"hr":         {},
	"team":       {},
}

// RoleAccountCheck flags role addresses (admin@, info@, ...) as risky.
// Matching is on the full local part, case-insensitive.
type RoleAccountCheck struct {
	prefixes map[string]struct{}
}

func NewRoleAccountCheck(prefixes map[string]struct{}) *RoleAccountCheck {
	if prefixes == nil {
		prefixes = defaultRolePrefixes
	}
	return &RoleAccountCheck{prefixes: prefixes}
}

func (c *RoleAccountCheck) Name() string { return "role-account" }

func (c *RoleAccountCheck) Inspect(localPart, _ string) (Result, bool, error) {
	if _, ok := c.prefixes[strings.ToLower(localPart)]; ok {
		return Result{Status: StatusRisky, Reason: ReasonRoleAccount}, true, nil
	}
	return Result{}, false, nil
}
