package specialist

import (
	"context"
	"fmt"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	llmx "github.com/pattarapol/CareerMate-Advisor/agent/llm"
	promptx "github.com/pattarapol/CareerMate-Advisor/agent/prompt"
)

// specialistInfos is the fixed registration order. The classifier prompt sees
// the descriptions in exactly this order every turn, which keeps the routing
// policy stable for identical requests.
var specialistInfos = []contractx.SpecialistInfo{
	{
		Type:        contractx.AgentTypeSkillGap,
		Description: "Helps users identify the skills required for a job and what they are missing.",
	},
	{
		Type:        contractx.AgentTypeJobFinder,
		Description: "Searches for and suggests job openings based on the user's skills.",
	},
	{
		Type:        contractx.AgentTypeCourseRecommender,
		Description: "Recommends online courses to help users learn new skills.",
	},
}

type registryImpl struct {
	classifier  contractx.Classifier
	specialists map[contractx.AgentType]contractx.Specialist
	infos       []contractx.SpecialistInfo
}

func (r *registryImpl) Classifier() contractx.Classifier {
	return r.classifier
}

func (r *registryImpl) Specialist(agent contractx.AgentType) (contractx.Specialist, bool) {
	s, ok := r.specialists[agent]
	return s, ok
}

func (r *registryImpl) Specialists() []contractx.SpecialistInfo {
	out := make([]contractx.SpecialistInfo, len(r.infos))
	copy(out, r.infos)
	return out
}

func NewRegistry(ctx context.Context, cfg llmx.Config) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()
	promptFor := map[contractx.AgentType]string{
		contractx.AgentTypeDispatcher:        prompts.Dispatcher,
		contractx.AgentTypeSkillGap:          prompts.SkillGap,
		contractx.AgentTypeJobFinder:         prompts.JobFinder,
		contractx.AgentTypeCourseRecommender: prompts.CourseRecommender,
	}
	for agent, p := range promptFor {
		if p == "" {
			return nil, fmt.Errorf("%w: prompt for agent=%s", contractx.ErrPromptMissing, agent)
		}
	}

	dispatcherModelCfg := cfg.OpenRouterFor(contractx.AgentTypeDispatcher)
	dispatcherModel, err := dispatcherModelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create dispatcher model: %v", contractx.ErrModelInvoke, err)
	}

	classifier, err := newClassifier(ctx, dispatcherModel, prompts.Dispatcher, specialistInfos)
	if err != nil {
		return nil, err
	}

	specialists := make(map[contractx.AgentType]contractx.Specialist, len(specialistInfos))
	for _, info := range specialistInfos {
		modelCfg := cfg.OpenRouterFor(info.Type)
		chatModel, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create model for agent=%s: %v", contractx.ErrModelInvoke, info.Type, err)
		}
		spec, err := newSpecialist(ctx, info.Type, chatModel, promptFor[info.Type])
		if err != nil {
			return nil, err
		}
		specialists[info.Type] = spec
	}

	return &registryImpl{
		classifier:  classifier,
		specialists: specialists,
		infos:       specialistInfos,
	}, nil
}
