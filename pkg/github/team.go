package github

import (
	"context"

	"github.com/sirupsen/logrus"
)

// TeamResult reports a team run. Updated lists the patched field keys.
type TeamResult = Result[string, *Team]

// TeamReconciler converges a team's existence and settings
type TeamReconciler struct {
	gw  TeamGateway
	log logrus.FieldLogger
}

// NewTeamReconciler creates a new team reconciler
func NewTeamReconciler(gw TeamGateway, log logrus.FieldLogger) *TeamReconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TeamReconciler{gw: gw, log: log}
}

// Run reconciles the team named req.Name in org. An update is followed by a
// re-read by slug because GitHub may normalize privacy and slug.
func (r *TeamReconciler) Run(ctx context.Context, org string, state State, req TeamRequest) (*TeamResult, error) {
	resource := org + "/" + req.Name
	log := r.log.WithFields(logrus.Fields{"kind": "team", "resource": resource})
	result := newResult[string, *Team](resource)

	current, err := ResolveTeam(ctx, r.gw, org, req.Name)
	if err != nil {
		return nil, err
	}

	if state == StateAbsent {
		if !current.Found {
			log.Debug("team absent as desired")
			return result, nil
		}
		log.WithField("slug", current.Value.Slug).Debug("deleting team")
		if err := r.gw.DeleteTeam(ctx, org, current.Value.Slug); err != nil {
			return nil, err
		}
		result.Changed = true
		result.Op = OpDelete
		result.Removed = append(result.Removed, current.Value.Name)
		return result, nil
	}

	fields, err := r.desiredFields(ctx, org, req)
	if err != nil {
		return nil, err
	}

	if !current.Found {
		log.Debug("team does not exist, creating")
		team, err := r.gw.CreateTeam(ctx, org, req.Name, fields)
		if err != nil {
			return nil, err
		}
		result.Changed = true
		result.Op = OpCreate
		result.Added = append(result.Added, team.Name)
		result.State = &team
		return result, nil
	}

	patch := Diff(current.Value, fields)
	if !patch.Changed() {
		log.Debug("team up to date")
		result.State = &current.Value
		return result, nil
	}

	slug := current.Value.Slug
	log.WithFields(logrus.Fields{"slug": slug, "fields": patch.Fields}).Debug("updating team")
	if _, err := r.gw.UpdateTeam(ctx, org, slug, current.Value.Name, patch.Delta); err != nil {
		return nil, err
	}

	refreshed, err := r.gw.GetTeam(ctx, org, slug)
	if err != nil {
		return nil, err
	}
	if !refreshed.Found {
		return nil, notFound("re-read", "team "+org+"/"+slug)
	}

	result.Changed = true
	result.Op = OpUpdate
	result.Updated = patch.Fields
	result.State = &refreshed.Value
	return result, nil
}

// desiredFields converts the request into API fields, resolving the
// parent team's display name to its ID.
func (r *TeamReconciler) desiredFields(ctx context.Context, org string, req TeamRequest) (TeamUpdate, error) {
	fields := TeamUpdate{
		Description: req.Description,
		Privacy:     req.Privacy,
	}

	parentName, ok := req.Parent.Get()
	if !ok {
		return fields, nil
	}
	parent, err := ResolveTeam(ctx, r.gw, org, parentName)
	if err != nil {
		return TeamUpdate{}, err
	}
	if !parent.Found {
		return TeamUpdate{}, notFound("resolve parent", "team "+org+"/"+parentName)
	}
	fields.ParentID = Some(parent.Value.ID)
	return fields, nil
}
