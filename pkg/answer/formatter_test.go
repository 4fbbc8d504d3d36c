package answer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dinver-app/dinver-sub005/pkg/answer"
	"github.com/dinver-app/dinver-sub005/pkg/model"
	"github.com/m-mizutani/gt"
	"google.golang.org/genai"
)

type mockGemini struct {
	generateFunc func(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, contents, config)
	}
	return nil, errors.New("not implemented")
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestFormatUsesOracle(t *testing.T) {
	mock := &mockGemini{
		generateFunc: func(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return textResponse("Evo što sam pronašao!"), nil
		},
	}

	f := answer.New(mock)
	resp := &model.Response{Outcome: model.OutcomeOK, Kind: model.ResultKindRestaurants}
	got := f.Format(context.Background(), "gdje ima pice", resp, nil)
	gt.V(t, got).Equal("Evo što sam pronašao!")
}

func TestFormatFallsBackOnOracleFailure(t *testing.T) {
	mock := &mockGemini{
		generateFunc: func(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return nil, errors.New("quota exceeded")
		},
	}

	f := answer.New(mock)
	resp := &model.Response{Outcome: model.OutcomeAmbiguous, Kind: model.ResultKindNone}
	got := f.Format(context.Background(), "???", resp, nil)
	gt.S(t, got).Contains("Nisam siguran")
}

func TestFallback(t *testing.T) {
	t.Run("missing location", func(t *testing.T) {
		got := answer.Fallback(&model.Response{Outcome: model.OutcomeMissingLocation}, nil)
		gt.S(t, got).Contains("lokaciju")
	})

	t.Run("restaurant not found", func(t *testing.T) {
		got := answer.Fallback(&model.Response{Outcome: model.OutcomeRestaurantNotFound}, nil)
		gt.S(t, got).Contains("restoran")
	})

	t.Run("not partner", func(t *testing.T) {
		got := answer.Fallback(&model.Response{Outcome: model.OutcomeNotPartner}, nil)
		gt.S(t, got).Contains("partner")
	})

	t.Run("no results with widening suggestion", func(t *testing.T) {
		got := answer.Fallback(
			&model.Response{Outcome: model.OutcomeNoResults},
			&model.SuggestedAction{RadiusToKm: 10},
		)
		gt.S(t, got).Contains("10 km")
	})

	t.Run("no results without suggestion", func(t *testing.T) {
		got := answer.Fallback(&model.Response{Outcome: model.OutcomeNoResults}, nil)
		gt.S(t, got).Contains("nema rezultata")
	})

	t.Run("result list names the nearest hits", func(t *testing.T) {
		resp := &model.Response{
			Outcome: model.OutcomeOK,
			Kind:    model.ResultKindMenuItems,
			Results: []model.CandidateResult{
				{
					Restaurant: &model.Restaurant{Name: "Marabu"},
					Item:       &model.MenuItem{Name: "Lazanje"},
					DistanceKm: 1.2,
				},
			},
			PageInfo: model.PageInfo{Total: 1},
		}
		got := answer.Fallback(resp, nil)
		gt.S(t, got).Contains("Marabu")
		gt.S(t, got).Contains("Lazanje")
		gt.S(t, got).Contains("1.2 km")
	})

	t.Run("open state", func(t *testing.T) {
		closes := time.Date(2026, 6, 5, 22, 0, 0, 0, time.UTC)
		resp := &model.Response{
			Outcome: model.OutcomeOK,
			Kind:    model.ResultKindOpenState,
			Results: []model.CandidateResult{
				{
					Restaurant: &model.Restaurant{Name: "Marabu"},
					Open:       &model.OpenState{State: model.HoursOpen, ClosesAt: &closes},
				},
			},
		}
		got := answer.Fallback(resp, nil)
		gt.S(t, got).Contains("otvoren")
		gt.S(t, got).Contains("22:00")
	})

	t.Run("undefined hours are not reported as closed", func(t *testing.T) {
		resp := &model.Response{
			Outcome: model.OutcomeOK,
			Kind:    model.ResultKindOpenState,
			Results: []model.CandidateResult{
				{
					Restaurant: &model.Restaurant{Name: "Marabu"},
					Open:       &model.OpenState{State: model.HoursUndefined},
				},
			},
		}
		got := answer.Fallback(resp, nil)
		gt.S(t, got).Contains("nemam")
	})
}
