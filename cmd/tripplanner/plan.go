package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bububa/trip-agents/components/llm"
	"github.com/bububa/trip-agents/config"
	"github.com/bububa/trip-agents/schema"
)

type planFlags struct {
	origin      string
	destination string
	start       string
	end         string
	budget      string
	travelers   int
	interests   []string
	request     string
	config      string
	provider    string
	model       string
	apiKey      string
	out         string
	format      string
}

// requestFile is the YAML shape accepted by --request
type requestFile struct {
	Origin      string   `yaml:"origin"`
	Destination string   `yaml:"destination"`
	StartDate   string   `yaml:"start_date"`
	EndDate     string   `yaml:"end_date"`
	Budget      string   `yaml:"budget"`
	Travelers   int      `yaml:"travelers"`
	Interests   []string `yaml:"interests"`
}

func newPlanCmd() *cobra.Command {
	return planCommand(new(planFlags))
}

func planCommand(f *planFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a trip",
		Long: `Run the flight, hotel, attraction and summary agents for a trip and write the trip plan.

The trip comes from flags, from a YAML file given with --request, or both; flags win.`,
		Example: `  tripplanner plan --origin "New York" --destination Tokyo --start 2025-06-01 --end 2025-06-08 \
    --budget Moderate --travelers 2 --interest "Food & Cuisine"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, f)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.origin, "origin", "", "city the travelers depart from")
	flags.StringVar(&f.destination, "destination", "", "destination city")
	flags.StringVar(&f.start, "start", "", "start date, YYYY-MM-DD")
	flags.StringVar(&f.end, "end", "", "end date, YYYY-MM-DD")
	flags.StringVar(&f.budget, "budget", string(schema.BudgetTierModerate), "budget tier: Budget, Moderate or Luxury")
	flags.IntVar(&f.travelers, "travelers", 1, "number of travelers, 1 to 10")
	flags.StringArrayVar(&f.interests, "interest", nil, "traveler interest, repeatable")
	flags.StringVar(&f.request, "request", "", "YAML file holding the trip request")
	flags.StringVar(&f.config, "config", config.DefaultConfigFile, "YAML configuration file")
	flags.StringVar(&f.provider, "provider", "", "model family: claude, openai, gemini or cohere")
	flags.StringVar(&f.model, "model", "", "model name, the family default when empty")
	flags.StringVar(&f.apiKey, "api-key", "", "API key, the family env var (e.g. OPENAI_API_KEY) when empty")
	flags.StringVar(&f.out, "out", ".", "directory the trip plan is written to")
	flags.StringVar(&f.format, "format", formatMarkdown, "trip plan format: md, html or json")
	return cmd
}

func runPlan(cmd *cobra.Command, f *planFlags) error {
	if !validFormat(f.format) {
		return fmt.Errorf("unknown format %q, expect md, html or json", f.format)
	}
	cfg, err := config.LoadFrom(f.config)
	if err != nil {
		return err
	}
	if f.provider != "" {
		family, err := llm.ParseProvider(f.provider)
		if err != nil {
			return err
		}
		if family != cfg.Family() {
			cfg.Provider.Family = family.String()
			cfg.Provider.APIKey = os.Getenv(family.EnvKey())
			cfg.Provider.BaseURL = os.Getenv(family.EnvBaseURL())
		}
	}
	if f.model != "" {
		cfg.Provider.Model = f.model
	}
	if f.apiKey != "" {
		cfg.Provider.APIKey = f.apiKey
	}

	req, err := buildRequest(cmd, f)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := config.NewLogger(cfg.Log)
	orch, err := cfg.NewOrchestrator(ctx, logger)
	if err != nil {
		return err
	}
	defer orch.Close()
	res, err := orch.GenerateTripPlan(ctx, req)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	printResult(stdout, res)
	path, err := writeArtifact(f.out, f.format, res)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(stdout, "\nNo agent succeeded, no trip plan was written.")
		return nil
	}
	fmt.Fprintf(stdout, "\nTrip plan written to %s\n", path)
	return nil
}

// buildRequest reads the --request file, if any, then applies the flags the user set
func buildRequest(cmd *cobra.Command, f *planFlags) (schema.TripRequest, error) {
	var (
		req schema.TripRequest
		err error
	)
	if f.request != "" {
		if req, err = readRequestFile(f.request); err != nil {
			return req, err
		}
	} else {
		req.Budget = schema.BudgetTier(f.budget)
		req.Travelers = f.travelers
	}
	flags := cmd.Flags()
	if flags.Changed("origin") || f.request == "" {
		req.Origin = f.origin
	}
	if flags.Changed("destination") || f.request == "" {
		req.Destination = f.destination
	}
	if flags.Changed("start") || (f.request == "" && f.start != "") {
		if req.StartDate, err = schema.ParseDate(f.start); err != nil {
			return req, fmt.Errorf("--start: %w", err)
		}
	}
	if flags.Changed("end") || (f.request == "" && f.end != "") {
		if req.EndDate, err = schema.ParseDate(f.end); err != nil {
			return req, fmt.Errorf("--end: %w", err)
		}
	}
	if flags.Changed("budget") {
		req.Budget = schema.BudgetTier(f.budget)
	}
	if flags.Changed("travelers") {
		req.Travelers = f.travelers
	}
	if flags.Changed("interest") {
		req.Interests = f.interests
	}
	return req, nil
}

func readRequestFile(path string) (schema.TripRequest, error) {
	var req schema.TripRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read %s: %w", path, err)
	}
	var v requestFile
	if err := yaml.Unmarshal(data, &v); err != nil {
		return req, fmt.Errorf("parse %s: %w", path, err)
	}
	req = schema.TripRequest{
		Origin:      v.Origin,
		Destination: v.Destination,
		Budget:      schema.BudgetTier(v.Budget),
		Travelers:   v.Travelers,
		Interests:   v.Interests,
	}
	if v.StartDate != "" {
		if req.StartDate, err = schema.ParseDate(v.StartDate); err != nil {
			return req, fmt.Errorf("%s start_date: %w", path, err)
		}
	}
	if v.EndDate != "" {
		if req.EndDate, err = schema.ParseDate(v.EndDate); err != nil {
			return req, fmt.Errorf("%s end_date: %w", path, err)
		}
	}
	return req, nil
}
