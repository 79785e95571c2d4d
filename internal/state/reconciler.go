// Package state implements declarative reconciliation: for each resource
// kind, a present/absent pair compares desired state against what the
// remote reports and issues at most one corrective action per call.
package state

import (
	"github.com/rs/zerolog"

	"github.com/stateops/gitlab-state/internal/gitlab"
	"github.com/stateops/gitlab-state/internal/models"
)

// Reconciler drives present/absent reconciliation over one session.
// Calls are synchronous and independent; the caller serializes them.
type Reconciler struct {
	sess *gitlab.Session
	log  zerolog.Logger
}

// New returns a Reconciler bound to an authenticated session.
func New(sess *gitlab.Session, log zerolog.Logger) *Reconciler {
	return &Reconciler{sess: sess, log: log}
}

func unchanged(name, comment string) models.Result {
	return models.Result{Name: name, Changed: false, Comment: comment}
}

func changed(name, comment string, diff map[string]any) models.Result {
	return models.Result{Name: name, Changed: true, Comment: comment, Diff: diff}
}

func failed(name string, err error) models.Result {
	return models.Result{Name: name, Changed: false, Comment: err.Error(), Err: err}
}

// finish logs the outcome and passes the result through.
func (r *Reconciler) finish(kind string, res models.Result) models.Result {
	ev := r.log.Info()
	if res.Err != nil {
		ev = r.log.Error().Err(res.Err)
	}
	ev.Str("kind", kind).
		Str("name", res.Name).
		Bool("changed", res.Changed).
		Msg(res.Comment)
	return res
}
