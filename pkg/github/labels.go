package github

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LabelResult reports a label run; State is the label set after the run.
type LabelResult = Result[Label, []Label]

// LabelReconciler converges a repository's label set
type LabelReconciler struct {
	gw  LabelGateway
	log logrus.FieldLogger
}

// NewLabelReconciler creates a new label reconciler
func NewLabelReconciler(gw LabelGateway, log logrus.FieldLogger) *LabelReconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LabelReconciler{gw: gw, log: log}
}

// Run reconciles the labels of repo. With state=present missing labels are
// created and differing ones updated; exclusive also deletes every label
// not listed. With state=absent listed labels that exist are deleted.
func (r *LabelReconciler) Run(ctx context.Context, repo ResourceName, state State, exclusive bool, labels []LabelSpec) (*LabelResult, error) {
	if exclusive && state == StateAbsent {
		return nil, exclusiveAbsent("labels of " + repo.FQRN())
	}

	log := r.log.WithFields(logrus.Fields{"kind": "labels", "resource": repo.FQRN()})
	result := newResult[Label, []Label](repo.FQRN())

	found, err := r.gw.GetRepository(ctx, repo)
	if err != nil {
		return nil, err
	}
	if !found.Found {
		return nil, notFound("look up", "repository "+repo.FQRN())
	}

	current, err := collect(r.gw.ListLabels(ctx, repo))
	if err != nil {
		return nil, err
	}
	have := NewLabelSet(current)

	for _, want := range labels {
		want.Normalize()
		existing, exists := have.Get(want.Name)

		switch {
		case state == StatePresent && !exists:
			log.WithField("label", want.Name).Debug("creating label")
			created, err := r.gw.CreateLabel(ctx, repo, want)
			if err != nil {
				return nil, err
			}
			result.Added = append(result.Added, created)

		case state == StatePresent:
			patch := Diff(existing, want)
			if !patch.Changed() {
				continue
			}
			log.WithFields(logrus.Fields{"label": want.Name, "fields": patch.Fields}).Debug("updating label")
			updated, err := r.gw.UpdateLabel(ctx, repo, patch.Delta)
			if err != nil {
				return nil, err
			}
			result.Updated = append(result.Updated, updated)

		case exists:
			log.WithField("label", want.Name).Debug("deleting label")
			if err := r.gw.DeleteLabel(ctx, repo, want.Name); err != nil {
				return nil, err
			}
			result.Removed = append(result.Removed, existing)
		}
	}

	if exclusive {
		wanted := make(map[string]bool, len(labels))
		for _, l := range labels {
			wanted[l.Name] = true
		}
		for _, l := range current {
			if wanted[l.Name] {
				continue
			}
			log.WithField("label", l.Name).Debug("deleting unlisted label")
			if err := r.gw.DeleteLabel(ctx, repo, l.Name); err != nil {
				return nil, err
			}
			result.Removed = append(result.Removed, l)
		}
	}

	result.finish()
	if !result.Changed {
		result.State = current
		return result, nil
	}

	result.State, err = collect(r.gw.ListLabels(ctx, repo))
	if err != nil {
		return nil, err
	}
	return result, nil
}
