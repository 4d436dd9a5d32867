package github

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// CollaboratorResult reports a collaborator run
type CollaboratorResult = Result[Collaborator, []Collaborator]

// CollaboratorReconciler converges the direct collaborators of a repository
type CollaboratorReconciler struct {
	gw  CollaboratorGateway
	log logrus.FieldLogger
}

// NewCollaboratorReconciler creates a new collaborator reconciler
func NewCollaboratorReconciler(gw CollaboratorGateway, log logrus.FieldLogger) *CollaboratorReconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CollaboratorReconciler{gw: gw, log: log}
}

// Run reconciles the collaborators of repo. A collaborator is updated only
// when the permission flags of their current role differ from those of the
// desired role. Logins compare case-insensitively, as on GitHub.
func (r *CollaboratorReconciler) Run(ctx context.Context, repo ResourceName, state State, exclusive bool, specs []CollaboratorSpec) (*CollaboratorResult, error) {
	if exclusive && state == StateAbsent {
		return nil, exclusiveAbsent("collaborators of " + repo.FQRN())
	}

	log := r.log.WithFields(logrus.Fields{"kind": "collaborators", "resource": repo.FQRN()})
	result := newResult[Collaborator, []Collaborator](repo.FQRN())

	found, err := r.gw.GetRepository(ctx, repo)
	if err != nil {
		return nil, err
	}
	if !found.Found {
		return nil, notFound("look up", "repository "+repo.FQRN())
	}

	current, err := collect(r.gw.ListCollaborators(ctx, repo))
	if err != nil {
		return nil, err
	}
	have := make(map[string]Collaborator, len(current))
	for _, c := range current {
		have[strings.ToLower(c.Login)] = c
	}

	wanted := make(map[string]bool, len(specs))
	for _, spec := range specs {
		key := strings.ToLower(spec.Username)
		wanted[key] = true
		existing, exists := have[key]

		if state == StateAbsent {
			if !exists {
				continue
			}
			log.WithField("user", spec.Username).Debug("removing collaborator")
			if err := r.gw.RemoveCollaborator(ctx, repo, existing.Login); err != nil {
				return nil, err
			}
			result.Removed = append(result.Removed, existing)
			continue
		}

		perm, ok := ParsePermission(spec.Permission)
		if !ok {
			return nil, &ValidationError{Field: "permission", Value: spec.Permission, Message: "unknown permission"}
		}
		desired := Collaborator{Login: spec.Username, Permission: perm, Permissions: PermissionsFor(perm)}
		if exists && existing.Permissions == desired.Permissions {
			continue
		}

		log.WithFields(logrus.Fields{"user": spec.Username, "permission": perm}).Debug("granting collaborator access")
		if err := r.gw.AddCollaborator(ctx, repo, spec.Username, perm); err != nil {
			return nil, err
		}
		if exists {
			result.Updated = append(result.Updated, desired)
		} else {
			result.Added = append(result.Added, desired)
		}
	}

	if exclusive {
		for _, c := range current {
			if wanted[strings.ToLower(c.Login)] {
				continue
			}
			log.WithField("user", c.Login).Debug("removing unlisted collaborator")
			if err := r.gw.RemoveCollaborator(ctx, repo, c.Login); err != nil {
				return nil, err
			}
			result.Removed = append(result.Removed, c)
		}
	}

	result.finish()
	if !result.Changed {
		result.State = current
		return result, nil
	}

	result.State, err = collect(r.gw.ListCollaborators(ctx, repo))
	if err != nil {
		return nil, err
	}
	return result, nil
}
