package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"quantlab/launcher/internal/logger"
	"quantlab/launcher/internal/tracking"
	"quantlab/launcher/internal/workflow"
)

var (
	runName      string
	runURIFolder string
	runEnvFile   string
)

var runCmd = &cobra.Command{
	Use:   "run <config.yaml>",
	Short: "Resolve a workflow config and launch the run",
	Example: `  # run with defaults (experiment "workflow", store under ./mlruns)
  launcher run workflow.yaml

  # named experiment, custom run store
  launcher run --name alpha158 --uri-folder runs workflow.yaml

  # load environment substitutions from a dotenv file first
  launcher run --env-file .env workflow.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflow,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runName, "name", "n", "workflow", "default experiment name (overridden by experiment_name in the config)")
	runCmd.Flags().StringVar(&runURIFolder, "uri-folder", "mlruns", "run-storage subdirectory for the default tracking manager")
	runCmd.Flags().StringVar(&runEnvFile, "env-file", "", "dotenv file loaded into the environment before rendering")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	configPath := args[0]

	level := "info"
	if debug {
		level = "debug"
	}
	logger.Init(&logger.Config{Level: level, Format: "console", Output: "stdout"})
	defer logger.Sync()

	if runEnvFile != "" {
		if err := godotenv.Load(runEnvFile); err != nil {
			return fmt.Errorf("load env file %s: %w", runEnvFile, err)
		}
	}

	recorder := tracking.NewFileRecorder()
	trainer := tracking.NewLocalTrainer(recorder)
	orch := workflow.NewOrchestrator(recorder, trainer)

	artifact, err := orch.Run(configPath, runName, runURIFolder)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("experiment: %s\n", artifact.ExperimentName)
		fmt.Printf("run id:     %s\n", artifact.RunID)
		fmt.Printf("config:     %s\n", artifact.ConfigArtifact)
	}
	return nil
}
