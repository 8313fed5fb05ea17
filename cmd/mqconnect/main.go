package main

import (
	"fmt"
	"os"
	"runtime"

	gojson "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/queueworks/mqconnect/pkg/config"
	"github.com/queueworks/mqconnect/pkg/logger"
)

var version = "0.1.0"

// overrideFlags maps CLI flag names to configuration keys. Only flags the
// user actually set are forwarded, so defaults stay with the loader.
var overrideFlags = map[string]string{
	"queue-manager":    "queue_manager",
	"channel":          "channel",
	"conn-name":        "conn_name",
	"client-id":        "client_id",
	"user":             "user",
	"password":         "password",
	"ccdt-url":         "ccdt_url",
	"tls-cipher-suite": "tls_cipher_suite",
	"tls-cipher-spec":  "tls_cipher_spec",
	"tls-peer-name":    "tls_peer_name",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	var logLevel string

	root := &cobra.Command{
		Use:   "mqconnect",
		Short: "mqconnect - IBM MQ connection configuration tooling",
		Long: `mqconnect maintains the connection and pooling configuration used to reach
an IBM MQ queue manager. It merges defaults, a YAML configuration file,
MQ_* environment variables and command-line overrides into one effective
configuration, validates it, and prints or exports the result.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{Level: logLevel, Encoding: "console"})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mqconnect v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newValidateCommand())
	root.AddCommand(newShowCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newValidateCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Merge all configuration sources and run validation. Exits non-zero with a
descriptive message when values are malformed or mutually-exclusive fields
are combined (channel with ccdt_url, tls_cipher_suite with tls_cipher_spec).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configFile)
			if err != nil {
				return err
			}
			logger.Debug("configuration validated",
				zap.String("queue_manager", cfg.QueueManager),
				zap.Bool("pool_enabled", cfg.Pool.Enabled))
			fmt.Printf("configuration is valid (queue manager %q)\n", cfg.QueueManager)
			return nil
		},
	}
	addConfigFlags(cmd, &configFile)
	return cmd
}

func newShowCommand() *cobra.Command {
	var configFile, format, output string
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective merged configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configFile)
			if err != nil {
				return err
			}
			if !showSecrets && cfg.Password != "" {
				cfg.Password = "********"
			}
			if output != "" {
				return config.Save(output, cfg)
			}
			rendered, err := renderConfig(cfg, format)
			if err != nil {
				return err
			}
			fmt.Println(rendered)
			return nil
		},
	}
	addConfigFlags(cmd, &configFile)
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml or json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the configuration to a file instead of stdout")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print the password instead of redacting it")
	return cmd
}

func addConfigFlags(cmd *cobra.Command, configFile *string) {
	cmd.Flags().StringVarP(configFile, "config", "c", "", "Path to a YAML configuration file")
	cmd.Flags().String("queue-manager", "", "Queue manager name")
	cmd.Flags().String("channel", "", "Server-connection channel")
	cmd.Flags().String("conn-name", "", "Connection name, e.g. host.example.com(1414)")
	cmd.Flags().String("client-id", "", "Client identifier")
	cmd.Flags().String("user", "", "User name")
	cmd.Flags().String("password", "", "Password")
	cmd.Flags().String("ccdt-url", "", "Client channel definition table URL")
	cmd.Flags().String("tls-cipher-suite", "", "TLS cipher suite (JSSE naming)")
	cmd.Flags().String("tls-cipher-spec", "", "TLS cipher spec (MQ naming)")
	cmd.Flags().String("tls-peer-name", "", "TLS peer name pattern")
}

// loadConfig merges the file, environment and any explicitly-set override
// flags into the effective configuration.
func loadConfig(cmd *cobra.Command, configFile string) (*config.ConnectionConfig, error) {
	overrides := make(map[string]string)
	for flag, key := range overrideFlags {
		if cmd.Flags().Changed(flag) {
			value, err := cmd.Flags().GetString(flag)
			if err != nil {
				return nil, err
			}
			overrides[key] = value
		}
	}
	return config.Load(config.LoadOptions{Path: configFile, Overrides: overrides})
}

func renderConfig(cfg *config.ConnectionConfig, format string) (string, error) {
	switch format {
	case "json":
		data, err := gojson.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to render configuration: %w", err)
		}
		return string(data), nil
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return "", fmt.Errorf("failed to render configuration: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected yaml or json)", format)
	}
}
