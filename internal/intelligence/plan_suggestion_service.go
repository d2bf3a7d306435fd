package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/chantier/internal/app"
	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/alexanderramin/chantier/internal/llm"
	"github.com/alexanderramin/chantier/internal/planfile"
)

// PlanSuggestionService asks a language model for a proposed intervention
// schedule. The result is never written directly; callers map and accept it.
type PlanSuggestionService interface {
	app.PlanSuggestUseCase
}

type planSuggestionService struct {
	client llm.LLMClient
}

func NewPlanSuggestionService(client llm.LLMClient) PlanSuggestionService {
	return &planSuggestionService{client: client}
}

func (s *planSuggestionService) Suggest(ctx context.Context, req app.PlanSuggestRequest) ([]domain.ProposedIntervention, error) {
	if len(req.Lots) == 0 {
		return nil, fmt.Errorf("project has no work packages to plan")
	}
	prompt := buildSiteTrace(req).JSON()

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPlanSuggest,
		SystemPrompt: planSuggestSystemPrompt,
		UserPrompt:   prompt,
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm plan suggestion failed: %w", err)
	}

	plan, err := llm.ExtractJSON[planfile.File](resp.Text, validatePlan)
	if errors.Is(err, llm.ErrInvalidOutput) {
		plan, err = s.repair(ctx, prompt, resp.Text, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to extract plan: %w", err)
	}
	return plan.Proposals(), nil
}

// repair gives the model one chance to fix unparseable output.
func (s *planSuggestionService) repair(ctx context.Context, prompt, previous string, cause error) (planfile.File, error) {
	var b strings.Builder
	b.WriteString("Site:\n")
	b.WriteString(prompt)
	b.WriteString("\n\nPrevious answer:\n")
	b.WriteString(previous)
	b.WriteString("\n\nProblem: ")
	b.WriteString(cause.Error())

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskPlanRepair,
		SystemPrompt: planRepairSystemPrompt,
		UserPrompt:   b.String(),
		JSON:         true,
	})
	if err != nil {
		return planfile.File{}, err
	}
	return llm.ExtractJSON[planfile.File](resp.Text, validatePlan)
}

func validatePlan(f planfile.File) error {
	if len(f.Interventions) == 0 {
		return fmt.Errorf("interventions must not be empty")
	}
	for i, e := range f.Interventions {
		if strings.TrimSpace(e.Lot) == "" {
			return fmt.Errorf("intervention %d: lot is required", i+1)
		}
	}
	return nil
}
