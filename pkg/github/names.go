package github

import (
	"context"
	"strings"
)

// ResourceName identifies a repository. Org is set only when Owner is not
// the authenticated caller, which selects the organization endpoints.
type ResourceName struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Org   string `json:"org,omitempty"`
}

// FQRN returns the fully qualified "owner/name" reference.
func (n ResourceName) FQRN() string {
	return n.Owner + "/" + n.Name
}

func (n ResourceName) String() string {
	return n.FQRN()
}

// ParseName parses "owner/name" or a bare "name". A bare name belongs to
// login, the authenticated caller.
func ParseName(ref, login string) (ResourceName, error) {
	parts := strings.Split(ref, "/")

	var owner, name string
	switch len(parts) {
	case 1:
		owner, name = login, parts[0]
	case 2:
		owner, name = parts[0], parts[1]
	default:
		return ResourceName{}, &ValidationError{
			Field:   "name",
			Value:   ref,
			Message: "invalid reference: expected owner/name or name",
		}
	}

	if owner == "" || name == "" {
		return ResourceName{}, &ValidationError{
			Field:   "name",
			Value:   ref,
			Message: "invalid reference: owner and name must not be empty",
		}
	}

	rn := ResourceName{Owner: owner, Name: name}
	if owner != login {
		rn.Org = owner
	}
	return rn, nil
}

// ResolveTeam finds a team by display name. The name is first tried as a
// slug; GitHub derives slugs from names with rules it does not publish, so
// on a miss every team in the organization is scanned for an exact name
// match and the match is looked up again by its slug. When nothing matches
// the original not-found lookup is returned.
func ResolveTeam(ctx context.Context, gw TeamFinder, org, name string) (Lookup[Team], error) {
	direct, err := gw.GetTeam(ctx, org, name)
	if err != nil || direct.Found {
		return direct, err
	}

	var slug string
	for team, err := range gw.ListTeams(ctx, org) {
		if err != nil {
			return Lookup[Team]{}, err
		}
		if team.Name == name {
			slug = team.Slug
			break
		}
	}

	if slug == "" {
		return direct, nil
	}
	return gw.GetTeam(ctx, org, slug)
}
