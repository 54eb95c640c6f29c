package main

import (
	"context"
	"log"
	"os"

	"github.com/segyhp/student-loan-simulator/internal/config"
	"github.com/segyhp/student-loan-simulator/internal/domain"
	"github.com/segyhp/student-loan-simulator/internal/service"
	"github.com/segyhp/student-loan-simulator/pkg/utils"

	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("simulate", pflag.ExitOnError)
	flags.String("scenario", "", "YAML or JSON scenario file (default: built-in two-loan demo)")
	flags.String("log-dir", "", "directory for the CSV payment logs")
	flags.String("log-prefix", "", "file name prefix for the CSV payment logs")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.LoadWithFlags(flags, map[string]string{
		"scenario":   "SIMULATION_SCENARIO_FILE",
		"log-dir":    "SIMULATION_LOG_DIR",
		"log-prefix": "SIMULATION_LOG_PREFIX",
	})
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	request, err := loadRequest(cfg)
	if err != nil {
		log.Fatalf("Failed to load scenario: %v", err)
	}

	result, err := run(context.Background(), cfg, request)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	printSummary(result)
}

func loadRequest(cfg *config.Config) (*domain.SimulationRequest, error) {
	if cfg.Simulation.ScenarioFile == "" {
		log.Println("No scenario file given, running the built-in demo")
		return config.DefaultScenario(), nil
	}
	return config.LoadScenario(cfg.Simulation.ScenarioFile)
}

func run(ctx context.Context, cfg *config.Config, request *domain.SimulationRequest) (*domain.SimulationResult, error) {
	simulationService := service.NewSimulationService(nil, nil, cfg)
	return simulationService.RunWithPaymentLog(ctx, request, cfg.Simulation.LogDir, cfg.Simulation.LogPrefix)
}

func printSummary(result *domain.SimulationResult) {
	log.Printf("Run %s: %d pay cycles, paid %s (%s principal, %s interest), %s unallocated",
		result.RunID,
		len(result.Cycles),
		result.TotalPayment.StringFixed(2),
		result.TotalPrincipal.StringFixed(2),
		result.TotalInterest.StringFixed(2),
		result.Unallocated.StringFixed(2),
	)

	for _, loan := range result.Loans {
		if loan.PaidOff && loan.PaidOffDate != nil {
			log.Printf("  %s: paid off %s, interest %s", loan.Key, utils.FormatDate(*loan.PaidOffDate), loan.TotalInterest.StringFixed(2))
			continue
		}
		log.Printf("  %s: %s remaining, interest %s", loan.Key, loan.RemainingPrincipal.StringFixed(2), loan.TotalInterest.StringFixed(2))
	}
}
