package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hiersim/manet-simulations/pkg/logger"
	"github.com/hiersim/manet-simulations/pkg/simulation"
	"github.com/hiersim/manet-simulations/pkg/utils"

	// Import simulations to register them
	_ "github.com/hiersim/manet-simulations/cmd/hierarchical-manet/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Long:  `Run a simulation interactively or with specified parameters`,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().StringP("simulation", "s", "", "simulation name to run")
	runCmd.Flags().StringP("params", "p", "", "parameters file (YAML)")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	simName, err := selectSimulation(cmd)
	if err != nil {
		return fmt.Errorf("failed to select simulation: %w", err)
	}

	sim, err := simulation.DefaultRegistry.Get(simName)
	if err != nil {
		return fmt.Errorf("failed to get simulation: %w", err)
	}

	params, err := collectParameters(cmd, simName)
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}

	if err := sim.Configure(params); err != nil {
		return fmt.Errorf("failed to configure simulation: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("\nReceived interrupt signal, stopping simulation...")
		if err := sim.Stop(); err != nil {
			logger.Errorf("Failed to stop simulation: %v", err)
		}
		cancel()
	}()

	logger.Progressf("Running %s...", simName)
	if err := sim.Run(ctx); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Success("Simulation finished")
	return nil
}

// selectSimulation resolves the simulation to run, prompting when the
// -s flag is absent and more than one simulation is registered.
func selectSimulation(cmd *cobra.Command) (string, error) {
	if name, _ := cmd.Flags().GetString("simulation"); name != "" {
		return name, nil
	}

	names := simulation.DefaultRegistry.List()
	if len(names) == 0 {
		return "", fmt.Errorf("no simulations registered")
	}
	if len(names) == 1 {
		return names[0], nil
	}

	var choice string
	prompt := &survey.Select{
		Message: "Select a simulation to run:",
		Options: names,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}

// collectParameters loads parameters from the -p file when given,
// otherwise prompts using the simulation's manifest.
func collectParameters(cmd *cobra.Command, simName string) (map[string]interface{}, error) {
	if paramsFile, _ := cmd.Flags().GetString("params"); paramsFile != "" {
		data, err := os.ReadFile(paramsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file: %w", err)
		}
		params := make(map[string]interface{})
		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("failed to parse params file: %w", err)
		}
		return params, nil
	}

	simInfos, err := utils.DiscoverSimulations()
	if err != nil {
		return nil, fmt.Errorf("failed to discover simulations: %w", err)
	}

	for _, info := range simInfos {
		if info.Config.Name == simName {
			return utils.PromptForParameters(info.Config.Parameters)
		}
	}
	return nil, fmt.Errorf("simulation manifest not found for %s", simName)
}
