package github

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// MembershipResult reports a team membership run. Added entries carry the
// role granted; Removed entries carry only the login.
type MembershipResult = Result[MemberChange, Roster]

// MembershipReconciler converges a team's roster
type MembershipReconciler struct {
	gw  MembershipGateway
	log logrus.FieldLogger
}

// NewMembershipReconciler creates a new membership reconciler
func NewMembershipReconciler(gw MembershipGateway, log logrus.FieldLogger) *MembershipReconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MembershipReconciler{gw: gw, log: log}
}

// Run reconciles the roster of the team spec.Name in org. Maintainers are
// processed before members. Adding a user with a role moves them out of the
// other role; removal always removes them from the team.
func (r *MembershipReconciler) Run(ctx context.Context, org string, state State, spec MembershipSpec) (*MembershipResult, error) {
	resource := org + "/" + spec.Name
	if spec.Exclusive && state == StateAbsent {
		return nil, exclusiveAbsent("members of team " + resource)
	}

	log := r.log.WithFields(logrus.Fields{"kind": "team_membership", "resource": resource})
	result := newResult[MemberChange, Roster](resource)

	team, err := ResolveTeam(ctx, r.gw, org, spec.Name)
	if err != nil {
		return nil, err
	}
	if !team.Found {
		return nil, notFound("look up", "team "+resource)
	}
	slug := team.Value.Slug

	roster, err := r.roster(ctx, org, slug)
	if err != nil {
		return nil, err
	}
	members := loginSet(roster.Members)
	maintainers := loginSet(roster.Maintainers)
	removed := make(map[string]bool)

	remove := func(login string) error {
		key := loginKey(login)
		if removed[key] {
			return nil
		}
		current, ok := maintainers[key]
		if !ok {
			current, ok = members[key]
		}
		if !ok {
			return nil
		}
		log.WithField("user", current).Debug("removing from team")
		if err := r.gw.RemoveTeamMembership(ctx, org, slug, current); err != nil {
			return err
		}
		removed[key] = true
		result.Removed = append(result.Removed, MemberChange{Login: current})
		return nil
	}

	add := func(login string, role TeamRole, holders map[string]string) error {
		if _, ok := holders[loginKey(login)]; ok {
			return nil
		}
		log.WithFields(logrus.Fields{"user": login, "role": role}).Debug("adding to team")
		if err := r.gw.AddTeamMembership(ctx, org, slug, login, role); err != nil {
			return err
		}
		result.Added = append(result.Added, MemberChange{Login: login, Role: role})
		return nil
	}

	for _, login := range spec.Maintainers {
		if state == StatePresent {
			err = add(login, TeamRoleMaintainer, maintainers)
		} else {
			err = remove(login)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, login := range spec.Members {
		if state == StatePresent {
			err = add(login, TeamRoleMember, members)
		} else {
			err = remove(login)
		}
		if err != nil {
			return nil, err
		}
	}

	if spec.Exclusive {
		wanted := loginSet(spec.Maintainers)
		for key, login := range loginSet(spec.Members) {
			wanted[key] = login
		}
		all := append(append([]string{}, roster.Maintainers...), roster.Members...)
		for _, login := range all {
			if _, ok := wanted[loginKey(login)]; ok {
				continue
			}
			if err := remove(login); err != nil {
				return nil, err
			}
		}
	}

	result.finish()
	if !result.Changed {
		result.State = roster
		return result, nil
	}

	result.State, err = r.roster(ctx, org, slug)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MembershipReconciler) roster(ctx context.Context, org, slug string) (Roster, error) {
	members, err := collect(r.gw.ListTeamMembers(ctx, org, slug, TeamRoleMember))
	if err != nil {
		return Roster{}, err
	}
	maintainers, err := collect(r.gw.ListTeamMembers(ctx, org, slug, TeamRoleMaintainer))
	if err != nil {
		return Roster{}, err
	}
	return Roster{Members: members, Maintainers: maintainers}, nil
}

// loginKey folds a login for comparison. GitHub logins are case-insensitive
// and the API reports the account's canonical spelling.
func loginKey(login string) string {
	return strings.ToLower(login)
}

// loginSet maps folded logins to their original spelling.
func loginSet(logins []string) map[string]string {
	set := make(map[string]string, len(logins))
	for _, login := range logins {
		set[loginKey(login)] = login
	}
	return set
}
