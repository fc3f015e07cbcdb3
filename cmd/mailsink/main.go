package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/mailsink"
	"github.com/bft-labs/mailsink/internal/cliconfig"
	"github.com/bft-labs/mailsink/pkg/log"
)

const longHelp = `Pipe log lines into a buffered mail sink.

mailsink reads lines from stdin, buffers them, and ships each full batch
as one mail message to the configured gateway without blocking the
producer. A partially filled buffer is flushed on shutdown.

Lines may carry a leading severity ("ERROR disk full"); anything else is
emitted at the default level. Configure via file ($HOME/.mailsink/config.toml),
MAILSINK_* environment variables, or flags; flags win.`

var exampleUsage = strings.TrimSpace(`
  tail -f app.log | mailsink --host smtp.example.com --from app@example.com --to ops@example.com
  mailsink --config /etc/mailsink/config.toml < errors.log
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var watch bool

	zlog := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "mailsink",
		Short:   "Batch log lines from stdin into mail messages",
		Long:    longHelp,
		Example: exampleUsage,
		Version: getVersion(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags; file and env never override them.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			// Log configuration (masking the password)
			logCfg := cfg
			if len(logCfg.Password) > 0 {
				logCfg.Password = "*****"
			}
			zlog.Info().Interface("config", logCfg).Msg("configuration")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watch && cfgFile != "" {
				watcher := cliconfig.NewWatcher(cfgFile, zlog, func() {
					zlog.Warn().Str("path", cfgFile).
						Msg("config file changed; restart to apply (sink config is immutable)")
				})
				go watcher.Run(ctx)
			}

			return run(ctx, cfg, zlog)
		},
	}

	flags := root.Flags()
	flags.StringVar(&cfgPath, "config", "", "path to TOML config file")
	flags.BoolVar(&watch, "watch-config", false, "watch the config file and report changes")
	flags.StringVar(&cfg.Name, "name", cfg.Name, "logger name ({name} token)")
	flags.StringVar(&cfg.Format, "format", cfg.Format, "record layout ({time} {level} {name} {message})")
	flags.StringVar(&cfg.TimeFormat, "time-format", cfg.TimeFormat, "Go time layout for the {time} token")
	flags.StringVar(&cfg.Host, "host", cfg.Host, "mail gateway host")
	flags.IntVar(&cfg.Port, "port", cfg.Port, "mail gateway port")
	flags.StringVar(&cfg.From, "from", cfg.From, "sender address")
	flags.StringSliceVar(&cfg.To, "to", cfg.To, "recipient addresses")
	flags.StringVar(&cfg.Subject, "subject", cfg.Subject, "subject line")
	flags.StringVar(&cfg.Username, "username", cfg.Username, "auth username")
	flags.StringVar(&cfg.Password, "password", cfg.Password, "auth password (prefer MAILSINK_PASSWORD)")
	flags.BoolVar(&cfg.StartTLS, "starttls", cfg.StartTLS, "upgrade the connection with STARTTLS")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "connection timeout")
	flags.StringVar(&cfg.Level, "level", cfg.Level, "severity threshold")
	flags.IntVar(&cfg.BufferSize, "buffer-size", cfg.BufferSize, "records per batch")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "delivery workers (1 preserves cross-batch order)")
	flags.StringVar(&cfg.Policy, "policy", cfg.Policy, "dispatch policy: fire-and-forget or bounded-wait")
	flags.DurationVar(&cfg.WaitTimeout, "wait-timeout", cfg.WaitTimeout, "producer wait under bounded-wait")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// run builds the sink and pumps stdin lines through it until EOF or
// signal, then flushes what remains.
func run(ctx context.Context, cfg cliconfig.Config, zlog zerolog.Logger) error {
	sinkCfg, err := cfg.ToSinkConfig()
	if err != nil {
		return err
	}

	logger, err := mailsink.New(sinkCfg,
		mailsink.WithLogger(log.NewZerologAdapterWithLogger(zlog)),
	)
	if err != nil {
		return err
	}
	if err := logger.Configure(); err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			zlog.Error().Err(err).Msg("stdin read error")
		}
	}()

	fallback := sinkCfg.Level
loop:
	for {
		select {
		case <-ctx.Done():
			zlog.Info().Msg("signal received, flushing")
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			level, msg := parseLine(line, fallback)
			if err := logger.Log(level, msg); err != nil {
				zlog.Error().Err(err).Msg("emit failed")
			}
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := logger.Close(closeCtx); err != nil {
		return fmt.Errorf("close sink: %w", err)
	}

	m := logger.Metrics()
	zlog.Info().
		Int("buffered", m.RecordsBuffered).
		Int("delivered", m.RecordsDelivered).
		Int("lost", m.RecordsLost).
		Int("batches", m.BatchesFlushed).
		Msg("shutdown complete")
	return nil
}

// parseLine splits an optional leading severity ("ERROR disk full",
// "warn: low memory") off a line. Unrecognized prefixes leave the whole
// line as the message at the fallback level.
func parseLine(line string, fallback mailsink.Level) (mailsink.Level, string) {
	fields := strings.SplitN(line, " ", 2)
	if len(fields) == 2 {
		if lvl, err := mailsink.ParseLevel(strings.TrimSuffix(fields[0], ":")); err == nil {
			return lvl, strings.TrimSpace(fields[1])
		}
	}
	return fallback, line
}
