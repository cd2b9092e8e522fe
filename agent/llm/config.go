package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	openrouterx "github.com/pattarapol/CareerMate-Advisor/pkg/openrouter"
)

// Config carries the shared model settings plus optional per-handler
// overrides. One cheap model can serve the dispatcher while the specialists
// run something stronger, or everything can share the default.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	DispatcherModel        string  `envconfig:"DISPATCHER_MODEL" split_words:"true"`
	SkillGapModel          string  `envconfig:"SKILL_GAP_MODEL" split_words:"true"`
	JobFinderModel         string  `envconfig:"JOB_FINDER_MODEL" split_words:"true"`
	CourseRecommenderModel string  `envconfig:"COURSE_RECOMMENDER_MODEL" split_words:"true"`
	DispatcherTemperature  float32 `envconfig:"DISPATCHER_TEMPERATURE" split_words:"true" default:"0"`
	SpecialistTemperature  float32 `envconfig:"SPECIALIST_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the effective model settings for one handler.
func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := ""
	switch agentType {
	case contractx.AgentTypeDispatcher:
		override = c.DispatcherModel
		if c.DispatcherTemperature >= 0 {
			temp = c.DispatcherTemperature
		}
	case contractx.AgentTypeSkillGap:
		override = c.SkillGapModel
	case contractx.AgentTypeJobFinder:
		override = c.JobFinderModel
	case contractx.AgentTypeCourseRecommender:
		override = c.CourseRecommenderModel
	}
	if agentType != contractx.AgentTypeDispatcher && c.SpecialistTemperature >= 0 {
		temp = c.SpecialistTemperature
	}
	if v := strings.TrimSpace(override); v != "" {
		modelName = v
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
