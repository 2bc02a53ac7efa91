package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gkcalat/pipelines/internal/config"
	"github.com/gkcalat/pipelines/internal/kfp"
	"github.com/gkcalat/pipelines/internal/output"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kfp",
	Short: "Kubeflow Pipelines CLI",
	Long: `A command line tool for the Kubeflow Pipelines API.
Manages experiments, runs and recurring runs, reports run metrics, moves artifacts,
and renders and launches Dataproc batch components.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(viper.GetString("log_level"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logClientMetrics()
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/kfp/config.yaml)")
	flags.String("host", "", "Pipelines API endpoint (overrides KFP_HOST)")
	flags.String("namespace", "", "Kubernetes namespace for multi-user deployments (overrides KFP_NAMESPACE)")
	flags.String("experiment-id", "", "Default experiment ID (overrides KFP_EXPERIMENT_ID)")
	flags.String("auth", "", "Authentication mode: none, token or google (overrides KFP_AUTH)")
	flags.StringP("output", "o", "", "Output format: table, json or yaml (overrides KFP_OUTPUT)")
	flags.String("log-level", "", "Log level: debug, info, warn or error (overrides KFP_LOG_LEVEL)")
	viper.BindPFlag("host", flags.Lookup("host"))
	viper.BindPFlag("namespace", flags.Lookup("namespace"))
	viper.BindPFlag("experiment_id", flags.Lookup("experiment-id"))
	viper.BindPFlag("auth", flags.Lookup("auth"))
	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "kfp"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("KFP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			logrus.WithError(err).Warn("failed to read config file")
		}
	} else {
		logrus.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

func setupLogging(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", level)
	}
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return nil
}

func newClient() (*kfp.Client, *config.Config, error) {
	cfg := config.New()
	client, err := kfp.NewClient(cfg, kfp.WithRegisterer(prometheus.DefaultRegisterer))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pipelines client: %w", err)
	}
	return client, cfg, nil
}

func newPrinter(cfg *config.Config) *output.Printer {
	return output.New(cfg.Output, os.Stdout)
}

// logClientMetrics logs the request counters of this invocation at debug level.
func logClientMetrics() {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		logrus.WithError(err).Debug("failed to gather client metrics")
		return
	}
	for _, mf := range families {
		if mf.GetName() != "kfp_client_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			fields := logrus.Fields{}
			for _, lp := range m.GetLabel() {
				fields[lp.GetName()] = lp.GetValue()
			}
			logrus.WithFields(fields).Debugf("%s %v", mf.GetName(), m.GetCounter().GetValue())
		}
	}
}
