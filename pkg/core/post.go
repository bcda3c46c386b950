package core

import (
	"context"
	"time"

	"github.com/oneconcern/geomon/pkg/core/status"
	"github.com/oneconcern/geomon/pkg/model"
	"go.uber.org/zap"
)

type postRequest struct {
	SessionID model.SessionGuid     `json:"sessionId"`
	Rows      model.PartialPostSpec `json:"rows,omitempty"`
}

// Post merges all of the version's reconciled edits into DEFAULT.
func (s *EditSession) Post(ctx context.Context) error {
	return s.post(ctx, nil)
}

// PostPartial merges only the rows listed per layer into DEFAULT. Rows left
// out remain pending in the version for a later post.
func (s *EditSession) PostPartial(ctx context.Context, spec model.PartialPostSpec) error {
	if spec.IsZero() {
		return status.ErrValidation.WrapMessage("partial post selects no row")
	}
	return s.post(ctx, spec)
}

func (s *EditSession) post(ctx context.Context, spec model.PartialPostSpec) (err error) {
	defer func(t0 time.Time) {
		if s.vm.MetricsEnabled() {
			s.vm.m.UsedAll(t0, "Post")(err)
		}
	}(time.Now())

	if err = s.guard(); err != nil {
		return err
	}

	s.mx.Lock()
	conflicted, reconciled := s.conflicted, s.reconciled
	s.mx.Unlock()

	if conflicted {
		// never silently post over unresolved conflicts: report their
		// count and category breakdown, fetched fresh
		set, cErr := s.Conflicts(ctx)
		if cErr != nil {
			return status.ErrConflicts.Wrap(cErr)
		}
		return status.ErrConflicts.WrapMessage("%s", set.Summary())
	}
	if !reconciled {
		return status.ErrNotReconciled
	}

	err = classify(s.vm.remote.PostJSON(ctx, model.VersionRoute(s.version, "post"),
		postRequest{SessionID: s.id, Rows: spec}, nil))
	if err != nil {
		return err
	}

	s.l.Info("posted to DEFAULT", zap.Bool("partial", len(spec) > 0))
	return nil
}
