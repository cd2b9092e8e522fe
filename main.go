package main

import (
	"context"
	"fmt"
	"strings"

	advisorx "github.com/pattarapol/CareerMate-Advisor/agent/agents/advisor"
	specialistx "github.com/pattarapol/CareerMate-Advisor/agent/agents/specialist"
	contractx "github.com/pattarapol/CareerMate-Advisor/agent/contract"
	llmx "github.com/pattarapol/CareerMate-Advisor/agent/llm"
	lookupx "github.com/pattarapol/CareerMate-Advisor/agent/lookup"
	statex "github.com/pattarapol/CareerMate-Advisor/agent/state"
	toolx "github.com/pattarapol/CareerMate-Advisor/agent/tool"
	configx "github.com/pattarapol/CareerMate-Advisor/pkg/config"
	_ "github.com/pattarapol/CareerMate-Advisor/pkg/logger/autoload"
	openrouterx "github.com/pattarapol/CareerMate-Advisor/pkg/openrouter"
)

type AppConfig struct {
	PostgresDSN   string `envconfig:"POSTGRES_DSN"`
	MaxToolRounds int    `envconfig:"MAX_TOOL_ROUNDS" default:"4"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("LLM")

	openRouterCfg := openrouterx.Config{
		BaseURL:  llmCfg.BaseURL,
		APIKey:   llmCfg.APIKey,
		Model:    llmCfg.Model,
		SiteURL:  llmCfg.SiteURL,
		SiteName: llmCfg.SiteName,
	}
	openRouterClient := openrouterx.NewClient(openRouterCfg)
	if openRouterClient == nil {
		panic("failed to initialize openrouter client")
	}

	store := newStore()
	lookup := newLookup(*appCfg)

	models, err := specialistx.NewRegistry(ctx, *llmCfg)
	if err != nil {
		panic(err)
	}

	advisor, err := advisorx.New(store, models, toolx.NewGateway(lookup), advisorx.Config{
		MaxToolRounds: appCfg.MaxToolRounds,
	})
	if err != nil {
		panic(err)
	}

	runDemo(ctx, advisor)
}

func newStore() statex.Store {
	upstashCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	if upstashCfg.URL == "" || upstashCfg.Token == "" {
		return statex.NewMemoryStore()
	}
	store, err := statex.NewUpstashRedisStore(*upstashCfg)
	if err != nil {
		panic(err)
	}
	return store
}

func newLookup(cfg AppConfig) lookupx.Service {
	if cfg.PostgresDSN == "" {
		return lookupx.NewStaticService()
	}
	svc, err := lookupx.NewPostgresService(cfg.PostgresDSN)
	if err != nil {
		panic(err)
	}
	return svc
}

func runDemo(ctx context.Context, advisor *advisorx.Advisor) {
	fmt.Println("--- CareerMate Initialized ---")

	const userID = "test_user_01"
	seedSkills := []string{"Python", "Git", "Data Structures"}
	if err := advisor.ReplaceSkills(ctx, userID, seedSkills); err != nil {
		panic(err)
	}
	fmt.Printf("User Context: Skills - %s\n", strings.Join(seedSkills, ", "))

	queries := []string{
		"I want to become a data scientist. What skills am I missing?",
		"Can you help me find a job with my current skills?",
		"How can I learn SQL and Pandas?",
		"Hi there! What can you do?",
	}

	for _, query := range queries {
		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Printf("USER QUERY: %s\n", query)
		fmt.Println(strings.Repeat("=", 50))

		outcome := advisor.Run(ctx, userID, query)

		fmt.Printf("\nHANDLED BY: %s\n\n", outcome.Handler)
		fmt.Println("FINAL RESPONSE:")
		fmt.Print(renderOutcome(outcome))
	}
}

func renderOutcome(outcome contractx.Outcome) string {
	var b strings.Builder
	switch outcome.Kind {
	case contractx.OutcomeSkillGap:
		analysis := outcome.SkillGap
		fmt.Fprintf(&b, "Skill Gap Analysis for: %s\n", analysis.TargetRole)
		fmt.Fprintf(&b, "  Your Skills: %s\n", strings.Join(analysis.UserSkills, ", "))
		fmt.Fprintf(&b, "  Required Skills: %s\n", strings.Join(analysis.RequiredSkills, ", "))
		missing := "None!"
		if len(analysis.MissingSkills) > 0 {
			missing = strings.Join(analysis.MissingSkills, ", ")
		}
		fmt.Fprintf(&b, "  >> Missing Skills: %s\n", missing)
		fmt.Fprintf(&b, "  Note: %s\n", analysis.Notes)
	case contractx.OutcomeJobs:
		fmt.Fprintln(&b, "Found some job opportunities for you:")
		for _, job := range outcome.Jobs {
			fmt.Fprintf(&b, "  - %s at %s (%s)\n", job.Title, job.Company, job.Location)
			fmt.Fprintf(&b, "    Skills: %s\n", strings.Join(job.RequiredSkills, ", "))
		}
	case contractx.OutcomeCourses:
		if len(outcome.Courses) == 0 {
			fmt.Fprintln(&b, outcome.Message)
			break
		}
		fmt.Fprintln(&b, "Here are some courses to help you learn:")
		for _, course := range outcome.Courses {
			fmt.Fprintf(&b, "  - To learn %s: '%s' on %s\n", course.Skill, course.Title, course.Platform)
		}
	case contractx.OutcomeError:
		fmt.Fprintf(&b, "Sorry, I encountered an error: %s\n", outcome.Err.Message)
	default:
		fmt.Fprintln(&b, outcome.Message)
	}
	return b.String()
}
