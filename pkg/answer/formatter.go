// Package answer turns structured results into user-facing natural
// language, with deterministic fallback text when generation is
// unavailable.
package answer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dinver-app/dinver-sub005/pkg/adapter"
	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/dinver-app/dinver-sub005/pkg/utils/logging"
	"google.golang.org/genai"
)

//go:embed prompt/answer.md
var answerPromptRaw string

var answerPromptTmpl = template.Must(template.New("answer").Parse(answerPromptRaw))

const maxListed = 3

// Formatter words the final answer. Generation failures never fail a turn;
// the deterministic template takes over.
type Formatter struct {
	gemini  adapter.Gemini
	timeout time.Duration
}

type Option func(*Formatter)

// WithTimeout bounds the generation call.
func WithTimeout(d time.Duration) Option {
	return func(f *Formatter) {
		f.timeout = d
	}
}

// New creates a formatter. A nil oracle is allowed and always produces
// fallback text.
func New(gemini adapter.Gemini, opts ...Option) *Formatter {
	f := &Formatter{
		gemini:  gemini,
		timeout: 8 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format words the answer for a finished turn.
func (f *Formatter) Format(ctx context.Context, question string, resp *model.Response, suggested *model.SuggestedAction) string {
	fallback := Fallback(resp, suggested)
	if f.gemini == nil {
		return fallback
	}

	resultsJSON, err := json.Marshal(resp.Results)
	if err != nil {
		return fallback
	}

	var buf bytes.Buffer
	if err := answerPromptTmpl.Execute(&buf, map[string]any{
		"Question":    question,
		"Outcome":     resp.Outcome,
		"ResultsJSON": string(resultsJSON),
		"MaxListed":   maxListed,
	}); err != nil {
		return fallback
	}

	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	out, err := f.gemini.GenerateContent(callCtx, []*genai.Content{
		genai.NewContentFromText(buf.String(), genai.RoleUser),
	}, &genai.GenerateContentConfig{})
	if err != nil {
		logging.From(ctx).Warn("answer generation failed, using fallback", "error", err)
		return fallback
	}

	text := extractText(out)
	if strings.TrimSpace(text) == "" {
		return fallback
	}
	return strings.TrimSpace(text)
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Fallback builds a deterministic templated sentence from the structured
// result.
func Fallback(resp *model.Response, suggested *model.SuggestedAction) string {
	switch resp.Outcome {
	case model.OutcomeMissingLocation:
		return "Trebam tvoju lokaciju za ovu pretragu. Podijeli lokaciju ili navedi grad."
	case model.OutcomeRestaurantNotFound:
		return "Nisam pronašao taj restoran među partnerima."
	case model.OutcomeNotPartner:
		return "Taj restoran nije partner aplikacije, pa nemam njegov jelovnik."
	case model.OutcomeAmbiguous:
		return "Nisam siguran što tražiš. Možeš li preformulirati pitanje?"
	case model.OutcomeNoResults:
		if suggested != nil && suggested.RadiusToKm > 0 {
			return fmt.Sprintf("Nažalost nema rezultata. Da proširim pretragu na %.0f km?", suggested.RadiusToKm)
		}
		return "Nažalost nema rezultata za ovu pretragu."
	}

	switch resp.Kind {
	case model.ResultKindOpenState:
		return openStateSentence(resp.Results)
	default:
		return resultsSentence(resp.Results, resp.PageInfo.Total)
	}
}

func resultsSentence(results []model.CandidateResult, total int) string {
	if len(results) == 0 {
		return "Nažalost nema rezultata za ovu pretragu."
	}

	names := make([]string, 0, maxListed)
	for i, r := range results {
		if i >= maxListed {
			break
		}
		label := r.Restaurant.Name
		if r.Item != nil {
			label = fmt.Sprintf("%s (%s)", r.Restaurant.Name, r.Item.Name)
		}
		if r.DistanceKm > 0 {
			label = fmt.Sprintf("%s, %.1f km", label, r.DistanceKm)
		}
		names = append(names, label)
	}

	if total > len(names) {
		return fmt.Sprintf("Pronašao sam %d rezultata, npr: %s.", total, strings.Join(names, "; "))
	}
	return fmt.Sprintf("Pronašao sam: %s.", strings.Join(names, "; "))
}

func openStateSentence(results []model.CandidateResult) string {
	if len(results) == 0 || results[0].Open == nil {
		return "Nemam podatke o radnom vremenu tog restorana."
	}
	r := results[0]
	switch r.Open.State {
	case model.HoursOpen:
		if r.Open.ClosesAt != nil {
			return fmt.Sprintf("%s je otvoren, radi do %s.", r.Restaurant.Name, r.Open.ClosesAt.Format("15:04"))
		}
		return fmt.Sprintf("%s je otvoren.", r.Restaurant.Name)
	case model.HoursClosed:
		if r.Open.OpensAt != nil {
			return fmt.Sprintf("%s je zatvoren, otvara %s u %s.", r.Restaurant.Name,
				croatianDay(r.Open.OpensAt.Weekday()), r.Open.OpensAt.Format("15:04"))
		}
		return fmt.Sprintf("%s je zatvoren.", r.Restaurant.Name)
	default:
		return fmt.Sprintf("Za %s nemam objavljeno radno vrijeme.", r.Restaurant.Name)
	}
}

func croatianDay(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return "u ponedjeljak"
	case time.Tuesday:
		return "u utorak"
	case time.Wednesday:
		return "u srijedu"
	case time.Thursday:
		return "u četvrtak"
	case time.Friday:
		return "u petak"
	case time.Saturday:
		return "u subotu"
	default:
		return "u nedjelju"
	}
}
