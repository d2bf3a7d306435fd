package intelligence

import (
	"context"
	"testing"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	responses []string
	err       error
	requests  []llm.GenerateRequest
}

func (m *scriptedClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	text := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return &llm.GenerateResponse{Text: text, Model: "llama3.2"}, nil
}

func (m *scriptedClient) Available(context.Context) bool { return m.err == nil }

func siteRequest() app.PlanSuggestRequest {
	start, end := domain.NewDate(2024, 1, 1), domain.NewDate(2024, 1, 31)
	return app.PlanSuggestRequest{
		Project: &domain.Project{Name: "Villa Mer", Client: "SCI Mer", StartDate: start},
		Lots: []*domain.WorkPackage{
			{ID: "lot-gros", Name: "Gros oeuvre", Status: domain.LotInProgress, StartDate: &start, EndDate: &end},
			{ID: "lot-elec", Name: "Electricite", Status: domain.LotPending},
		},
		Interventions: []*domain.SubIntervention{
			{WorkPackageID: "lot-gros", Title: "Fondations", StartDate: domain.NewDate(2024, 1, 2), EndDate: domain.NewDate(2024, 1, 9)},
		},
		Today: domain.NewDate(2024, 1, 15),
		Brief: "electricity after the slab",
	}
}

func TestPlanSuggestion_Suggest(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"interventions":[
		{"lot":"Gros oeuvre","title":"Dalle","start":"2024-01-16","end":"2024-01-22"},
		{"lot":"Electricite","title":"Gaines","start":"2024-01-23","end":"2024-01-26"}
	]}`}}
	svc := NewPlanSuggestionService(client)

	got, err := svc.Suggest(context.Background(), siteRequest())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Gros oeuvre", got[0].WorkPackageName)
	assert.Equal(t, domain.NewDate(2024, 1, 16), got[0].StartDate)
	assert.Equal(t, "Gaines", got[1].Title)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, llm.TaskPlanSuggest, req.Task)
	assert.True(t, req.JSON)
	assert.Contains(t, req.UserPrompt, `"name": "Gros oeuvre"`)
	assert.Contains(t, req.UserPrompt, `"today": "2024-01-15"`)
	assert.Contains(t, req.UserPrompt, `"lot": "Gros oeuvre"`, "existing interventions carry their lot name")
	assert.Contains(t, req.UserPrompt, "electricity after the slab")
}

func TestPlanSuggestion_RepairsInvalidOutput(t *testing.T) {
	client := &scriptedClient{responses: []string{
		`Sure! Here are some ideas: pour the slab next week.`,
		`{"interventions":[{"lot":"Gros oeuvre","title":"Dalle","start":"2024-01-16","end":"2024-01-22"}]}`,
	}}
	svc := NewPlanSuggestionService(client)

	got, err := svc.Suggest(context.Background(), siteRequest())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.Len(t, client.requests, 2)
	assert.Equal(t, llm.TaskPlanRepair, client.requests[1].Task)
	assert.Contains(t, client.requests[1].UserPrompt, "pour the slab next week")
}

func TestPlanSuggestion_GivesUpAfterOneRepair(t *testing.T) {
	client := &scriptedClient{responses: []string{`{"interventions":[]}`}}
	svc := NewPlanSuggestionService(client)

	_, err := svc.Suggest(context.Background(), siteRequest())
	require.ErrorIs(t, err, llm.ErrInvalidOutput)
	assert.Len(t, client.requests, 2)
}

func TestPlanSuggestion_ClientError(t *testing.T) {
	client := &scriptedClient{err: llm.ErrOllamaUnavailable}
	_, err := NewPlanSuggestionService(client).Suggest(context.Background(), siteRequest())
	assert.ErrorIs(t, err, llm.ErrOllamaUnavailable)
}

func TestPlanSuggestion_NoLots(t *testing.T) {
	client := &scriptedClient{}
	req := siteRequest()
	req.Lots = nil

	_, err := NewPlanSuggestionService(client).Suggest(context.Background(), req)
	assert.Error(t, err)
	assert.Empty(t, client.requests)
}
