// Package main provides the log2kafka CLI: it reads log lines from stdin or a file, encodes each
// one as a self-describing Avro container and produces it to Kafka.
//
// Usage:
//
//	tail -F /var/log/app.log | log2kafka --schema access.conf --topic logs:0 --brokers kafka:9092
//	log2kafka --config log2kafka.yaml --input /var/log/app.log
//	log2kafka --schema access.conf --input app.log --dry-run
//
// Flags override the matching keys of the YAML configuration file.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Sokol111/log2kafka/pkg/core"
	"github.com/Sokol111/log2kafka/pkg/messaging/avro/serialization"
	"github.com/Sokol111/log2kafka/pkg/messaging/forwarder"
	kafkaconfig "github.com/Sokol111/log2kafka/pkg/messaging/kafka/config"
	"github.com/Sokol111/log2kafka/pkg/messaging/kafka/producer"
	"github.com/Sokol111/log2kafka/pkg/observability"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var version = "dev"

type flags struct {
	configPath string
	schema     string
	topic      string
	brokers    string
	key        string
	driver     string
	input      string
	logLevel   string
	dryRun     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "log2kafka",
		Short: "Encode log lines as Avro containers and produce them to Kafka",
		Long: `log2kafka reads log lines, extracts fields with the patterns of a mapping file,
encodes every line as a self-describing Avro object container and sends it to Kafka.
Lines that do not match the mapping are sent unchanged.

Example:
  log2kafka --schema access.conf --topic logs --brokers localhost:9092 < app.log`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), newApp(f.configPath, overrides(cmd, f)))
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "YAML configuration file (defaults to $CONFIG_FILE)")
	cmd.Flags().StringVarP(&f.schema, "schema", "s", "", "Schema and mapping file; without it lines are sent raw")
	cmd.Flags().StringVarP(&f.topic, "topic", "t", "", "Destination as topic[:partition]")
	cmd.Flags().StringVarP(&f.brokers, "brokers", "b", "", "Comma separated bootstrap brokers")
	cmd.Flags().StringVarP(&f.key, "key", "k", "", "Message key")
	cmd.Flags().StringVar(&f.driver, "driver", "", fmt.Sprintf("Producer driver %v", producer.Drivers()))
	cmd.Flags().StringVarP(&f.input, "input", "i", "", `Input file, "-" for stdin`)
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Print messages to stdout instead of producing them")

	return cmd
}

// overrides maps the flags that were set onto configuration keys.
func overrides(cmd *cobra.Command, f *flags) map[string]any {
	out := map[string]any{}
	set := func(flag, key, value string) {
		if cmd.Flags().Changed(flag) {
			out[key] = value
		}
	}

	set("schema", "serializer.config-file", f.schema)
	set("topic", "kafka.topic", f.topic)
	set("brokers", "kafka.brokers", f.brokers)
	set("key", "kafka.key", f.key)
	set("driver", "kafka.driver", f.driver)
	set("input", "input.path", f.input)
	set("log-level", "logger.level", f.logLevel)

	if f.dryRun {
		out["kafka.driver"] = kafkaconfig.DriverStdout
	}
	return out
}

func newApp(configPath string, overrides map[string]any, extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		core.NewCoreModule(
			core.WithConfigPath(configPath),
			core.WithOverrides(overrides),
		),
		observability.NewObservabilityModule(),
		kafkaconfig.NewKafkaConfigModule(),
		serialization.NewSerializerModule(),
		producer.NewProducerModule(),
		forwarder.NewForwarderModule(),
	}
	return fx.New(append(opts, extra...)...)
}

// run starts the application and blocks until it is shut down, either by a signal or by the
// line reader reaching the end of its input.
func run(ctx context.Context, app *fx.App) error {
	if err := app.Err(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	sig := <-app.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop: %w", err)
	}

	if sig.ExitCode != 0 {
		return fmt.Errorf("stopped with exit code %d", sig.ExitCode)
	}
	return nil
}
