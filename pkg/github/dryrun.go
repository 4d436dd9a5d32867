package github

import (
	"context"

	"github.com/sirupsen/logrus"
)

// dryRunGateway forwards reads and logs writes instead of sending them.
// Write results are synthesized from the desired values merged over the
// current remote state, so a reconciler reports the changes it would make.
// Re-reads after a write still return the unchanged remote state.
type dryRunGateway struct {
	Gateway
	log logrus.FieldLogger
}

// DryRun wraps gw so that no mutating call reaches GitHub.
func DryRun(gw Gateway, log logrus.FieldLogger) Gateway {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &dryRunGateway{Gateway: gw, log: log.WithField("dry_run", true)}
}

func (d *dryRunGateway) skip(action string, fields logrus.Fields) {
	d.log.WithFields(fields).Info("would " + action)
}

func (d *dryRunGateway) CreateRepository(_ context.Context, name ResourceName, spec RepositorySpec) (Repository, error) {
	d.skip("create repository", logrus.Fields{"repository": name.FQRN()})
	return Merge(Repository{
		Owner:    name.Owner,
		Name:     name.Name,
		FullName: name.FQRN(),
	}, spec), nil
}

func (d *dryRunGateway) UpdateRepository(ctx context.Context, name ResourceName, delta RepositorySpec) (Repository, error) {
	d.skip("update repository", logrus.Fields{"repository": name.FQRN()})
	current, err := d.Gateway.GetRepository(ctx, name)
	if err != nil {
		return Repository{}, err
	}
	return Merge(current.Value, delta), nil
}

func (d *dryRunGateway) DeleteRepository(_ context.Context, name ResourceName) error {
	d.skip("delete repository", logrus.Fields{"repository": name.FQRN()})
	return nil
}

func (d *dryRunGateway) CreateLabel(_ context.Context, repo ResourceName, label LabelSpec) (Label, error) {
	d.skip("create label", logrus.Fields{"repository": repo.FQRN(), "label": label.Name})
	return Merge(Label{Name: label.Name}, label), nil
}

func (d *dryRunGateway) UpdateLabel(ctx context.Context, repo ResourceName, delta LabelSpec) (Label, error) {
	d.skip("update label", logrus.Fields{"repository": repo.FQRN(), "label": delta.Name})
	current := Label{Name: delta.Name}
	for label, err := range d.Gateway.ListLabels(ctx, repo) {
		if err != nil {
			return Label{}, err
		}
		if label.Name == delta.Name {
			current = label
			break
		}
	}
	return Merge(current, delta), nil
}

func (d *dryRunGateway) DeleteLabel(_ context.Context, repo ResourceName, name string) error {
	d.skip("delete label", logrus.Fields{"repository": repo.FQRN(), "label": name})
	return nil
}

func (d *dryRunGateway) CreateTeam(_ context.Context, org, name string, fields TeamUpdate) (Team, error) {
	d.skip("create team", logrus.Fields{"org": org, "team": name})
	// The slug is assigned by GitHub on creation, so a planned team has none.
	return Merge(Team{Name: name}, fields), nil
}

func (d *dryRunGateway) UpdateTeam(ctx context.Context, org, slug, name string, delta TeamUpdate) (Team, error) {
	d.skip("update team", logrus.Fields{"org": org, "team": slug})
	current, err := d.Gateway.GetTeam(ctx, org, slug)
	if err != nil {
		return Team{}, err
	}
	if !current.Found {
		current.Value = Team{Name: name, Slug: slug}
	}
	return Merge(current.Value, delta), nil
}

func (d *dryRunGateway) DeleteTeam(_ context.Context, org, slug string) error {
	d.skip("delete team", logrus.Fields{"org": org, "team": slug})
	return nil
}

func (d *dryRunGateway) AddTeamMembership(_ context.Context, org, slug, login string, role TeamRole) error {
	d.skip("add team member", logrus.Fields{"org": org, "team": slug, "user": login, "role": role})
	return nil
}

func (d *dryRunGateway) RemoveTeamMembership(_ context.Context, org, slug, login string) error {
	d.skip("remove team member", logrus.Fields{"org": org, "team": slug, "user": login})
	return nil
}

func (d *dryRunGateway) AddCollaborator(_ context.Context, repo ResourceName, login string, permission Permission) error {
	d.skip("grant collaborator access", logrus.Fields{"repository": repo.FQRN(), "user": login, "permission": permission})
	return nil
}

func (d *dryRunGateway) RemoveCollaborator(_ context.Context, repo ResourceName, login string) error {
	d.skip("remove collaborator", logrus.Fields{"repository": repo.FQRN(), "user": login})
	return nil
}
