// mptcpctl は、MPTCPセッションのソケットオプションを設定、参照、シミュレーションするコマンドです。
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	mptcpgo "github.com/aptpod/mptcp-go"
	"github.com/aptpod/mptcp-go/log"
	"github.com/aptpod/mptcp-go/mptcp"
	mptcpprom "github.com/aptpod/mptcp-go/prometheus"
)

var (
	rootCmd = &cobra.Command{
		Use:   "mptcpctl",
		Short: "Apply, inspect and simulate MPTCP session socket options.",
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Get the built version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mptcpctl %s (commit: %s)\n", mptcpgo.Version, builtCommit)
		},
	}

	applyCmd = &cobra.Command{
		Use:   "apply",
		Short: "Dial the configured subflows and apply the configured options.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conf, logger, err := setup()
			if err != nil {
				return err
			}
			sess, err := dialSession(ctx, conf, logger)
			if err != nil {
				return err
			}
			defer sess.Close(ctx)

			failed, err := applyOptions(ctx, cmd.OutOrStdout(), sess, conf.Options)
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d option(s) failed", failed, len(conf.Options))
			}
			return nil
		},
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Dial the configured subflows, apply the options and print the SOL_MPTCP queries.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conf, logger, err := setup()
			if err != nil {
				return err
			}
			sess, err := dialSession(ctx, conf, logger)
			if err != nil {
				return err
			}
			defer sess.Close(ctx)

			if _, err := applyOptions(ctx, cmd.ErrOrStderr(), sess, conf.Options); err != nil {
				return err
			}
			r, err := inspect(ctx, sess)
			if err != nil {
				return err
			}
			return r.Write(cmd.OutOrStdout())
		},
	}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Run the configured options against an in-memory session.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conf, logger, err := setup()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("subflows") {
				conf.Simulate.Subflows = simSubflowsFlag
			}
			if cmd.Flags().Changed("metrics-listen") {
				conf.Metrics.Listen = metricsListenFlag
			}
			writes := simWritesFlag
			if writes < 0 {
				writes = conf.Simulate.Subflows + 1
			}

			reg := prometheus.NewRegistry()
			obs, err := mptcpprom.NewObserver(reg)
			if err != nil {
				return err
			}
			r, err := simulate(ctx, cmd.OutOrStdout(), conf, writes, logger, mptcp.WithSessionObserver(obs))
			if err != nil {
				return err
			}
			if err := r.Write(cmd.OutOrStdout()); err != nil {
				return err
			}

			if conf.Metrics.Listen == "" {
				return nil
			}
			ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
			defer cancel()
			return serveMetrics(ctx, conf.Metrics.Listen, reg)
		},
	}

	confPathFlag      string
	logLevelFlag      string
	logTimeFlag       bool
	simSubflowsFlag   int
	simWritesFlag     int
	metricsListenFlag string
	builtCommit       = "dev"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&confPathFlag, "config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn or error)")
	rootCmd.PersistentFlags().BoolVar(&logTimeFlag, "log-time", false, "include timestamps in log lines")

	simulateCmd.Flags().IntVar(&simSubflowsFlag, "subflows", 2, "number of in-memory subflows")
	simulateCmd.Flags().IntVar(&simWritesFlag, "writes", -1, "number of messages written through the scheduler (defaults to one per subflow)")
	simulateCmd.Flags().StringVar(&metricsListenFlag, "metrics-listen", "", "serve /metrics on this address after the simulation")

	// 補完コマンドは不要
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	// エラーは main で出力する
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(simulateCmd)
}

// loadConf は、設定ファイルを読み込みます。path が空の場合はデフォルトの設定を返却します。
func loadConf(path string) (*Config, error) {
	if path == "" {
		conf := &Config{}
		if err := conf.UnmarshalYAML([]byte("{}")); err != nil {
			return nil, err
		}
		return conf, nil
	}
	return ReadConf(path)
}

func setup() (*Config, log.Logger, error) {
	conf, err := loadConf(confPathFlag)
	if err != nil {
		return nil, nil, err
	}
	if logLevelFlag != "" {
		conf.LogLevel = logLevelFlag
	}
	l, err := newLogger(os.Stderr, conf.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(l)
	slog.Debug("loaded configuration", "config", conf.String())
	return conf, log.NewSlog(l), nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{ReplaceAttr: logReplacements})))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
