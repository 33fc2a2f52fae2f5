package main

import (
	"fmt"
	"os"

	"penaltysim/adapters/fixtures"
	"penaltysim/adapters/report"
	"penaltysim/adapters/rng"
	"penaltysim/adapters/rulesfile"
	"penaltysim/adapters/shootout"
	"penaltysim/app"
	"penaltysim/domain/rules"
	"penaltysim/internal"
	"penaltysim/internal/config"
	"penaltysim/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// env is the wiring shared by every command
type env struct {
	cfg      *config.Config
	logger   *internal.Logger
	registry *rules.Registry
	reader   *fixtures.SeasonReader
}

func main() {
	e := &env{}
	var dataDir, reportDir, prefix, rulesFile, logLevel string

	rootCmd := &cobra.Command{
		Use:   "penaltysim",
		Short: "Replay league seasons with every draw settled by a penalty shootout",
		Long: `penaltysim rescores football seasons as if every drawn match had been
followed by a penalty shootout worth a bonus point, and measures how much
that would have changed the table.

Configuration comes from the environment (or a .env file) and can be
overridden by flags:
- SIM_ITERATIONS, SIM_QUICK_ITERATIONS, SIM_SEED, SIM_WORKERS
- DATA_DIR, REPORT_DIR, LEAGUE_PREFIX, RULES_FILE
- LOG_LEVEL, LOG_FORMAT`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// a missing .env file is fine
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.Paths.DataDir = dataDir
			}
			if cmd.Flags().Changed("report-dir") {
				cfg.Paths.ReportDir = reportDir
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Paths.LeaguePrefix = prefix
			}
			if cmd.Flags().Changed("rules") {
				cfg.Paths.RulesFile = rulesFile
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}

			e.cfg = cfg
			e.logger = internal.NewFormattedLogger(internal.ParseLogLevel(cfg.Logging.Level), cfg.Logging.Format)
			e.registry, err = rulesfile.Registry(cfg.Paths.RulesFile)
			if err != nil {
				return err
			}
			e.reader = fixtures.NewSeasonReader(cfg.Paths.DataDir, cfg.Paths.LeaguePrefix, e.logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding season files (DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&reportDir, "report-dir", "", "Directory reports are written to (REPORT_DIR)")
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", "", "Season file prefix, e.g. SerieA (LEAGUE_PREFIX)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "YAML or JSON file with extra rule sets (RULES_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE (LOG_LEVEL)")

	rootCmd.AddCommand(
		newCompareCmd(e),
		newSimulateCmd(e),
		newDrawsCmd(e),
		newRulesCmd(e),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func newCompareCmd(e *env) *cobra.Command {
	var year, control string
	var tests []string
	var writeReport bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Score a season under several rule sets and compare them to the real table",
		Long: `Score a season under fixed draw rules, without simulation.

By default HomeWins (home side takes the bonus point on every draw) and
AwayWins are compared to Real.

Example: penaltysim compare --year 2022 --test HomeWins,AwayWins,Modified`,
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := e.reader.ReadSeason(cmd.Context(), year)
			if err != nil {
				return err
			}
			svc := app.NewRuleComparisonService(e.registry, e.logger)
			cmp, err := svc.Compare(season, control, tests...)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.ComparisonMarkdown(cmp))
			if writeReport {
				_, err = report.NewWriter(e.cfg.Paths.ReportDir, e.logger).WriteComparison(cmp)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&year, "year", "2022", "Season to load")
	cmd.Flags().StringVar(&control, "control", rules.Real, "Rule set the others are compared to")
	cmd.Flags().StringSliceVar(&tests, "test", []string{rules.HomeWins, rules.AwayWins}, "Rule sets to compare")
	cmd.Flags().BoolVar(&writeReport, "report", false, "Also write Markdown, HTML and JSON reports")
	return cmd
}

func newSimulateCmd(e *env) *cobra.Command {
	var year, control, test string
	var years []string
	var quick, writeReport bool
	var iterations, workers, parallelSeasons int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the Monte Carlo shootout simulation over one or more seasons",
		Long: `Replay every draw of a season with a simulated penalty shootout (four
kicks a side, then sudden death, every kick scored with probability one half)
and score the outcome under the Modified rules: shootout winner 2 points,
loser 1.

Example: penaltysim simulate --year 2022 --iterations 1000 --seed 42 --report
         penaltysim simulate --years 2019,2020,2021 --quick`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("iterations") {
				iterations = e.cfg.IterationCount(quick)
			}
			if !cmd.Flags().Changed("seed") {
				seed = e.cfg.Simulation.Seed
			}
			if !cmd.Flags().Changed("workers") {
				workers = e.cfg.Simulation.Workers
			}
			if len(years) == 0 {
				years = []string{year}
			}

			controlSet, err := e.registry.Get(control)
			if err != nil {
				return errors.WithCode(errors.CodeConfigInvalid, err)
			}
			testSet, err := e.registry.Get(test)
			if err != nil {
				return errors.WithCode(errors.CodeConfigInvalid, err)
			}

			kickers := rng.NewKickerSource(rng.NewSeededRNG(), seed)
			simulator := app.NewMonteCarloService(shootout.NewSource(kickers), e.logger).
				WithWorkers(workers).
				WithRules(controlSet, testSet)
			batch, err := app.NewSeasonBatchService(e.reader, simulator, e.logger).
				WithMaxSeasons(parallelSeasons).
				Run(cmd.Context(), years, iterations)
			if err != nil {
				return err
			}
			return printBatch(cmd, e, batch, writeReport)
		},
	}

	cmd.Flags().StringVar(&year, "year", "2022", "Season to simulate")
	cmd.Flags().StringSliceVar(&years, "years", nil, "Several seasons to simulate, overrides --year")
	cmd.Flags().BoolVar(&quick, "quick", false, "Use SIM_QUICK_ITERATIONS iterations")
	cmd.Flags().IntVar(&iterations, "iterations", app.DefaultIterations, "Iterations per season (SIM_ITERATIONS)")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "Base random seed (SIM_SEED)")
	cmd.Flags().IntVar(&workers, "workers", 1, "Iterations run concurrently (SIM_WORKERS)")
	cmd.Flags().IntVar(&parallelSeasons, "parallel-seasons", 2, "Seasons simulated concurrently")
	cmd.Flags().StringVar(&control, "control", rules.Real, "Rule set of the real table")
	cmd.Flags().StringVar(&test, "test", rules.Modified, "Rule set applied to shootout results")
	cmd.Flags().BoolVar(&writeReport, "report", false, "Also write Markdown, HTML and JSON reports")
	return cmd
}

func printBatch(cmd *cobra.Command, e *env, batch *app.BatchResult, writeReport bool) error {
	out := cmd.OutOrStdout()
	writer := report.NewWriter(e.cfg.Paths.ReportDir, e.logger)
	for _, name := range batch.Order {
		res := batch.Seasons[name]
		fmt.Fprint(out, report.SimulationMarkdown(res))
		fmt.Fprintln(out)
		if writeReport {
			if _, err := writer.WriteSimulation(res); err != nil {
				return err
			}
		}
	}
	if len(batch.Order) > 1 {
		fmt.Fprintf(out, "Pooled over %d seasons: %d score deltas, %d rank deltas\n",
			len(batch.Order), len(batch.ScoreDeltas()), len(batch.RankDeltas()))
	}
	return nil
}

func newDrawsCmd(e *env) *cobra.Command {
	var year string

	cmd := &cobra.Command{
		Use:   "draws",
		Short: "Count the draws each team played in a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			season, err := e.reader.ReadSeason(cmd.Context(), year)
			if err != nil {
				return err
			}
			stats, err := app.NewDrawStatsService().DrawsPerTeam(season)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.DrawsMarkdown(stats))
			return nil
		},
	}

	cmd.Flags().StringVar(&year, "year", "2022", "Season to load")
	return cmd
}

func newRulesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available rule sets and their point awards",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range e.registry.Names() {
				set, err := e.registry.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-10s %s\n", name, set)
			}
			return nil
		},
	}
}
