package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/retirewise/planner/internal/calculation"
	"github.com/retirewise/planner/internal/config"
	"github.com/retirewise/planner/internal/domain"
	"github.com/retirewise/planner/internal/output"
	pkgdec "github.com/retirewise/planner/pkg/decimal"
)

var (
	ratesFile  string
	formatName string
	outFile    bool
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "retirewise",
		Short: "Retirement income projection and planning",
		Long: `retirewise projects a household's retirement finances year by year:
portfolio balances across registered and non-registered accounts, progressive
income tax, government benefits with election-age adjustments and clawback,
and mandatory minimum withdrawals.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&ratesFile, "rates", "", "rate set YAML file (default: built-in rates)")
	root.PersistentFlags().StringVarP(&formatName, "format", "f", "console", "output format: console, csv, json")
	root.PersistentFlags().BoolVar(&outFile, "write-file", false, "write output to a timestamped file instead of stdout")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine progress to stderr")

	root.AddCommand(projectCmd(), optimizeCmd(), variantCmd(), exampleCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func projectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project <scenario.yaml>",
		Short: "Run a scenario through the projection engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, scenario, err := loadEngineAndScenario(args[0])
			if err != nil {
				return err
			}

			results, err := engine.RunScenario(scenario)
			if err != nil {
				return err
			}
			return emit(results)
		},
	}
}

func optimizeCmd() *cobra.Command {
	var (
		targetBalance  float64
		legacyFraction float64
		tolerance      float64
		maxIterations  int
		timeout        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "optimize <scenario.yaml>",
		Short: "Solve for the sustainable monthly spending level",
		Long: `optimize searches for the fixed monthly spending amount whose projection
ends at the target terminal balance (zero by default, i.e. exhaust the
portfolio at life expectancy).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, scenario, err := loadEngineAndScenario(args[0])
			if err != nil {
				return err
			}

			optimizer := calculation.NewSpendingOptimizer(engine)
			if verbose {
				optimizer.SetLogger(stderrLogger{})
			}

			ctx := context.Background()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			result, err := optimizer.Optimize(ctx, scenario, calculation.OptimizerOptions{
				TargetBalance:  decimal.NewFromFloat(targetBalance),
				LegacyFraction: decimal.NewFromFloat(legacyFraction),
				Tolerance:      decimal.NewFromFloat(tolerance),
				MaxIterations:  maxIterations,
			})
			if err != nil {
				if result != nil {
					fmt.Fprintf(os.Stderr, "best trial: %s/month (final balance %s, target %s)\n",
						result.MonthlySpending.StringFixed(2), result.FinalBalance.StringFixed(2), result.Target.StringFixed(2))
				}
				return err
			}

			monthly := pkgdec.NewMoneyFromDecimal(result.MonthlySpending)
			fmt.Printf("Sustainable spending: %s/month (%s/year, converged in %d iterations)\n",
				monthly.Round().Format(), monthly.Annual().Round().Format(), result.Iterations)
			fmt.Printf("Final balance %s against target %s\n\n",
				pkgdec.NewMoneyFromDecimal(result.FinalBalance).Round().Format(),
				pkgdec.NewMoneyFromDecimal(result.Target).Round().Format())
			return emit(result.Results)
		},
	}

	cmd.Flags().Float64Var(&targetBalance, "target", 0, "target terminal balance")
	cmd.Flags().Float64Var(&legacyFraction, "legacy-fraction", 0, "target a fraction of the starting portfolio instead")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "absolute tolerance on the terminal balance (default 1000)")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "iteration budget (default 100)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort the search after this duration")
	return cmd
}

func variantCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "variant <kind> <scenario.yaml>",
		Short: "Derive a modified scenario from a baseline",
		Long: "variant applies one of the supported transformations (" +
			strings.Join(calculation.VariantNames(), ", ") + ") and writes the derived scenario YAML.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			baseline, err := parser.LoadScenario(args[1])
			if err != nil {
				return err
			}

			derived, err := calculation.ApplyVariantByName(args[0], baseline)
			if err != nil {
				return err
			}

			data, err := marshalScenario(derived)
			if err != nil {
				return err
			}
			if outPath == "" {
				fmt.Print(string(data))
				return nil
			}
			return os.WriteFile(outPath, data, 0644)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the derived scenario to this file (default stdout)")
	return cmd
}

func exampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example <path>",
		Short: "Write a starter scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteExampleScenario(args[0]); err != nil {
				return err
			}
			fmt.Printf("wrote example scenario to %s\n", args[0])
			return nil
		},
	}
}

func loadEngineAndScenario(scenarioPath string) (*calculation.Engine, *domain.Scenario, error) {
	parser := config.NewInputParser()

	rates, err := parser.LoadRateSet(ratesFile)
	if err != nil {
		return nil, nil, err
	}
	scenario, err := parser.LoadScenario(scenarioPath)
	if err != nil {
		return nil, nil, err
	}

	engine, err := calculation.NewEngine(rates)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		engine.SetLogger(stderrLogger{})
	}
	return engine, scenario, nil
}

func marshalScenario(s *domain.Scenario) ([]byte, error) {
	return yaml.Marshal(s)
}

func emit(results *domain.CalculationResults) error {
	formatter := output.GetFormatterByName(formatName)
	if formatter == nil {
		return fmt.Errorf("unknown format %q (available: %s)",
			formatName, strings.Join(output.AvailableFormatterNames(), ", "))
	}

	if outFile {
		ext := output.NormalizeFormatName(formatName)
		if ext == "console" {
			ext = "txt"
		}
		name, err := output.WriteFormatted(formatter, results, ext)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", name)
		return nil
	}

	data, err := formatter.Format(results)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// stderrLogger adapts the standard log package to the engine's interface.
type stderrLogger struct{}

func (stderrLogger) Debugf(format string, args ...any) { log.Printf("DEBUG "+format, args...) }
func (stderrLogger) Infof(format string, args ...any)  { log.Printf("INFO "+format, args...) }
func (stderrLogger) Warnf(format string, args ...any)  { log.Printf("WARN "+format, args...) }
func (stderrLogger) Errorf(format string, args ...any) { log.Printf("ERROR "+format, args...) }
