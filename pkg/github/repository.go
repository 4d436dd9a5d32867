package github

import (
	"context"

	"github.com/sirupsen/logrus"
)

// RepositoryResult reports a repository run. Updated lists the patched
// setting keys; State is nil once the repository is gone.
type RepositoryResult = Result[string, *Repository]

// RepositoryReconciler converges a repository's existence and settings
type RepositoryReconciler struct {
	gw  RepositoryGateway
	log logrus.FieldLogger
}

// NewRepositoryReconciler creates a new repository reconciler
func NewRepositoryReconciler(gw RepositoryGateway, log logrus.FieldLogger) *RepositoryReconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RepositoryReconciler{gw: gw, log: log}
}

// Run reconciles the repository name against state and spec.
//
//	exists  state    action
//	no      present  create (org endpoint when name.Org is set)
//	yes     present  update only the fields that differ
//	yes     absent   delete
//	no      absent   nothing
func (r *RepositoryReconciler) Run(ctx context.Context, name ResourceName, state State, spec RepositorySpec) (*RepositoryResult, error) {
	log := r.log.WithFields(logrus.Fields{"kind": "repository", "resource": name.FQRN()})
	result := newResult[string, *Repository](name.FQRN())

	current, err := r.gw.GetRepository(ctx, name)
	if err != nil {
		return nil, err
	}

	switch {
	case !current.Found && state == StatePresent:
		log.Debug("repository does not exist, creating")
		repo, err := r.gw.CreateRepository(ctx, name, spec)
		if err != nil {
			return nil, err
		}
		result.Changed = true
		result.Op = OpCreate
		result.Added = append(result.Added, name.FQRN())
		result.State = &repo

	case current.Found && state == StatePresent:
		patch := Diff(current.Value, spec)
		if !patch.Changed() {
			log.Debug("repository up to date")
			result.State = &current.Value
			break
		}
		log.WithField("fields", patch.Fields).Debug("updating repository")
		repo, err := r.gw.UpdateRepository(ctx, name, patch.Delta)
		if err != nil {
			return nil, err
		}
		result.Changed = true
		result.Op = OpUpdate
		result.Updated = patch.Fields
		result.State = &repo

	case current.Found && state == StateAbsent:
		log.Debug("deleting repository")
		if err := r.gw.DeleteRepository(ctx, name); err != nil {
			return nil, err
		}
		result.Changed = true
		result.Op = OpDelete
		result.Removed = append(result.Removed, name.FQRN())

	default:
		log.Debug("repository absent as desired")
	}

	return result, nil
}
