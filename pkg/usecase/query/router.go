package query

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"

	"github.com/dinver-app/dinver-sub005/pkg/intent"
	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/dinver-app/dinver-sub005/pkg/utils/logging"
	"google.golang.org/genai"
)

//go:embed prompt/router.md
var routerPromptRaw string

var routerPromptTmpl = template.Must(template.New("router").Parse(routerPromptRaw))

type sessionSummary struct {
	Intent     model.IntentName
	ParamsJSON string
	Suggested  float64
}

// routeIntent resolves the tool and typed arguments for a turn. The oracle
// is invoked once with a bounded timeout and retried exactly once on
// transport failure; after that, or when no tool was selected, the
// heuristic parser takes over. A schema validation failure is returned as
// intent.ErrInvalidArgs so the caller reports AMBIGUOUS without a domain
// lookup.
func (u *UseCase) routeIntent(ctx context.Context, q *model.Query, sess *model.SessionState) (*intent.Resolved, error) {
	if u.gemini == nil {
		return u.heuristicParse(q.Text), nil
	}

	prompt, err := u.buildRouterPrompt(q, sess)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt, ""),
		Tools:             u.registry.Specs(),
		Temperature:       ptrFloat32(0.0),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(q.Text, genai.RoleUser),
	}

	var resp *genai.GenerateContentResponse
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, u.cfg.OracleTimeout)
		resp, err = u.gemini.GenerateContent(callCtx, contents, config)
		cancel()
		if err == nil {
			break
		}
		logging.From(ctx).Warn("oracle call failed", "attempt", attempt+1, "error", err)
	}
	if err != nil {
		return u.heuristicParse(q.Text), nil
	}

	fc := firstFunctionCall(resp)
	if fc == nil {
		return u.heuristicParse(q.Text), nil
	}

	resolved, err := u.registry.Parse(*fc)
	if err != nil {
		if errors.Is(err, intent.ErrUnknownTool) {
			// The oracle ignored the registry entirely; treat like no
			// selection.
			return u.heuristicParse(q.Text), nil
		}
		return nil, err
	}
	return resolved, nil
}

func (u *UseCase) buildRouterPrompt(q *model.Query, sess *model.SessionState) (string, error) {
	data := map[string]any{
		"HasCoords": q.HasCoords(),
		"Session":   (*sessionSummary)(nil),
	}
	if sess != nil && sess.LastParams != nil {
		raw, err := json.Marshal(sess.LastParams)
		if err != nil {
			return "", fmt.Errorf("failed to marshal session params: %w", err)
		}
		summary := &sessionSummary{
			Intent:     sess.LastIntent,
			ParamsJSON: string(raw),
		}
		if sess.SuggestedAction != nil {
			summary.Suggested = sess.SuggestedAction.RadiusToKm
		}
		data["Session"] = summary
	}

	var buf bytes.Buffer
	if err := routerPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute router prompt: %w", err)
	}
	return buf.String(), nil
}

func firstFunctionCall(resp *genai.GenerateContentResponse) *genai.FunctionCall {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.FunctionCall != nil {
				return part.FunctionCall
			}
		}
	}
	return nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}
