package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Site codes are short and typed by hand on every command: VIL01, ECOLE024.
var siteCodePattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project is a construction site: the owner of every work package.
type Project struct {
	ID string
	// ShortID is the site code users refer to the project by.
	ShortID   string
	Name      string
	Client    string
	Address   string
	StartDate time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeSiteCode trims and upper-cases a site code as typed.
func NormalizeSiteCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate checks the site code and name.
func (p *Project) Validate() error {
	switch {
	case p.ShortID == "":
		return fmt.Errorf("site code is required (use --id)")
	case !siteCodePattern.MatchString(p.ShortID):
		return fmt.Errorf("site code %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. VIL01)", p.ShortID)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("project name is required")
	}
	return nil
}

// DisplayID is the site code, or the first eight characters of the id for
// projects created without one.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	return p.ID[:min(len(p.ID), 8)]
}
