package query

import (
	"context"
	"errors"
	"strings"

	"github.com/dinver-app/dinver-sub005/pkg/intent"
	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/dinver-app/dinver-sub005/pkg/pagination"
	"github.com/dinver-app/dinver-sub005/pkg/session"
	"github.com/dinver-app/dinver-sub005/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// HandleTurn processes one conversational turn end to end: confirmation
// interpretation, intent routing, parameter resolution, domain lookup,
// pagination and answer wording. Unresolvable questions come back as an
// AMBIGUOUS response, never an error; an error means the domain lookup
// itself failed.
func (u *UseCase) HandleTurn(ctx context.Context, q *model.Query) (*model.Response, error) {
	if q == nil || strings.TrimSpace(q.Text) == "" {
		return u.respond(ctx, q, model.ResultKindNone, model.OutcomeAmbiguous, nil, nil), nil
	}

	var sess *model.SessionState
	if q.ThreadID != "" {
		sess = u.sessions.Get(q.ThreadID)
	}

	// A short follow-up reply refines the previous search without going
	// through the oracle.
	if sess != nil && sess.LastParams != nil {
		if d, ok := session.Interpret(q.Text); ok {
			return u.handleConfirmation(ctx, q, sess, d)
		}
	}

	resolved, err := u.routeIntent(ctx, q, sess)
	if err != nil {
		if errors.Is(err, intent.ErrInvalidArgs) {
			logging.From(ctx).Info("oracle arguments rejected", "error", err)
			return u.respond(ctx, q, model.ResultKindNone, model.OutcomeAmbiguous, nil, nil), nil
		}
		return nil, err
	}
	if resolved.Name == model.IntentUnknown {
		return u.respond(ctx, q, model.ResultKindNone, model.OutcomeAmbiguous, nil, nil), nil
	}

	params, outcome, err := u.resolveParams(ctx, resolved, q)
	if err != nil {
		return nil, err
	}
	if outcome != "" {
		return u.respond(ctx, q, model.ResultKindNone, outcome, nil, nil), nil
	}

	return u.executeAndFinish(ctx, q, resolved.Name, params)
}

// handleConfirmation re-executes the previous intent with adjusted
// parameters. The suggested action is consumed regardless of the directive
// so a stale suggestion never fires on a later turn.
func (u *UseCase) handleConfirmation(ctx context.Context, q *model.Query, sess *model.SessionState, d *session.Directive) (*model.Response, error) {
	set, err := u.repo.Taxonomies(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load taxonomies")
	}

	params := session.Apply(sess, d, u.cfg.MaxRadiusKm, set)
	if params == nil {
		return u.respond(ctx, q, model.ResultKindNone, model.OutcomeAmbiguous, nil, nil), nil
	}

	if d.Kind == session.DirectiveAddFilter {
		matches := u.taxonomy.Resolve(d.Term, set)
		if len(matches) > 0 {
			session.MergeMatches(params, matches)
		} else if params.ItemQuery == "" {
			params.ItemQuery = strings.TrimSpace(d.Term)
		}
	}

	return u.executeAndFinish(ctx, q, sess.LastIntent, params)
}

// executeAndFinish runs the domain lookup for a fully resolved intent, then
// paginates, words the answer and persists the session.
func (u *UseCase) executeAndFinish(ctx context.Context, q *model.Query, name model.IntentName, params *model.ResolvedParams) (*model.Response, error) {
	kind, results, outcome, err := u.execute(ctx, name, params)
	if err != nil {
		return nil, err
	}

	var suggested *model.SuggestedAction
	if outcome == model.OutcomeNoResults && params.RadiusKm > 0 && params.RadiusKm < u.cfg.MaxRadiusKm {
		suggested = &model.SuggestedAction{
			RadiusToKm: min(params.RadiusKm*2, u.cfg.MaxRadiusKm),
		}
	}

	key := params.CanonicalKey(name)
	hash := pagination.HashParams(key)
	offset, limit := pagination.Decode(q.Cursor, hash, params.PageSize)
	page, info, next, prev := pagination.Page(results, offset, limit, hash)

	resp := &model.Response{
		Kind:       kind,
		Outcome:    outcome,
		Results:    page,
		NextCursor: next,
		PrevCursor: prev,
		PageInfo:   info,
	}
	resp.Answer = u.formatter.Format(ctx, q.Text, resp, suggested)

	if q.ThreadID != "" {
		ids := make([]string, 0, len(page))
		for _, r := range page {
			if r.Restaurant != nil {
				ids = append(ids, string(r.Restaurant.ID))
			}
		}
		u.sessions.Put(&model.SessionState{
			ThreadID:        q.ThreadID,
			LastIntent:      name,
			LastParams:      params,
			SuggestedAction: suggested,
			LastResultIDs:   ids,
		})
	}

	return resp, nil
}

// respond builds a terminal response that carries no results. The session is
// left untouched so the previous turn stays refinable.
func (u *UseCase) respond(ctx context.Context, q *model.Query, kind model.ResultKind, outcome model.OutcomeCode, results []model.CandidateResult, suggested *model.SuggestedAction) *model.Response {
	resp := &model.Response{
		Kind:    kind,
		Outcome: outcome,
		Results: results,
	}
	question := ""
	if q != nil {
		question = q.Text
	}
	resp.Answer = u.formatter.Format(ctx, question, resp, suggested)
	return resp
}
