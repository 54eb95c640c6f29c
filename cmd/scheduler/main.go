package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/segyhp/student-loan-simulator/internal/config"
	"github.com/segyhp/student-loan-simulator/internal/domain"
	"github.com/segyhp/student-loan-simulator/internal/service"

	"github.com/robfig/cron/v3"
)

func main() {
	log.Println("Starting simulation scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.SchedulerLocation()))

	if err := setupCronJobs(c, cfg); err != nil {
		log.Fatalf("Error scheduling payment log refresh: %v", err)
	}

	c.Start()
	log.Printf("Scheduler started, refreshing payment logs on %q (%s)", cfg.Scheduler.Cron, cfg.Scheduler.Timezone)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config) error {
	simulationService := service.NewSimulationService(nil, nil, cfg)

	_, err := c.AddFunc(cfg.Scheduler.Cron, func() {
		log.Println("Running payment log refresh job...")
		refreshPaymentLogs(simulationService, cfg)
	})
	return err
}

// refreshPaymentLogs reruns the configured scenario, rewriting the CSV payment logs
func refreshPaymentLogs(simulationService *service.SimulationService, cfg *config.Config) {
	var request *domain.SimulationRequest
	if cfg.Simulation.ScenarioFile == "" {
		request = config.DefaultScenario()
	} else {
		var err error
		request, err = config.LoadScenario(cfg.Simulation.ScenarioFile)
		if err != nil {
			log.Printf("Error loading scenario %s: %v", cfg.Simulation.ScenarioFile, err)
			return
		}
	}

	result, err := simulationService.RunWithPaymentLog(context.Background(), request, cfg.Simulation.LogDir, cfg.Simulation.LogPrefix)
	if err != nil {
		log.Printf("Error refreshing payment logs: %v", err)
		return
	}

	log.Printf("Payment logs refreshed: %d pay cycles, %s paid", len(result.Cycles), result.TotalPayment.StringFixed(2))
}
