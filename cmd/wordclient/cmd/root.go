package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wordgame/wordclient/internal/client"
	"github.com/wordgame/wordclient/internal/config"
	"github.com/wordgame/wordclient/internal/console"
	"github.com/wordgame/wordclient/internal/db"
	"github.com/wordgame/wordclient/internal/logging"
	"github.com/wordgame/wordclient/internal/repo"
	"github.com/wordgame/wordclient/internal/web"
)

var (
	Root = &cobra.Command{
		Use:   "wordclient",
		Short: "Client for the UDP word guessing game",
		Run:   startRoot,
	}
	rootFlags = struct {
		Config string
	}{}
)

func init() {
	Root.PersistentFlags().StringVar(&rootFlags.Config, "config", "", "the config file to use (default: wordclient.yaml)")
	Root.PersistentFlags().String("host", "", "the host of the game server")
	Root.PersistentFlags().Int("port", 0, "the port of the game server")
	Root.PersistentFlags().String("log-level", "", "the log level to use")
	Root.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")
	Root.PersistentFlags().String("db", "", "the sqlite database to record rounds in")
	Root.Flags().String("listen-addr", "", "the local UDP address to listen on")
	Root.Flags().String("http-addr", "", "the network address to listen on for the status HTTP server")
}

func startRoot(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	logger, logCloser := newLogger(cfg)
	defer logCloser.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		journal client.Journal
		history web.History
	)
	if cfg.DB != "" {
		sqldb, err := db.Open(ctx, cfg.DB, db.OpenOptions{})
		if err != nil {
			logErrorAndExit(logger, "Unable to open database", slog.String("db", cfg.DB), slog.Any("err", err))
			return
		}
		defer sqldb.Close()

		rounds := repo.New(sqldb)
		journal = rounds
		history = rounds
	}

	cl, err := client.New(client.Options{
		Logger:  logger,
		Config:  cfg,
		Journal: journal,
	})
	if err != nil {
		logErrorAndExit(logger, "Unable to initialize client", slog.Any("err", err))
		return
	}

	con := console.New(console.Options{
		In:     os.Stdin,
		Out:    os.Stdout,
		Logger: logger,
		Game:   cl.Game(),
		Config: cl,
	})
	cl.Game().Subscribe(con.Notify)

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		if err := cl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logErrorAndExit(logger, "Unable to run client", slog.Any("err", err))
		}
	}()

	if cfg.HTTPAddr != "" {
		srv := web.New(web.Options{
			Logger:  logger,
			Status:  cl.Game(),
			History: history,
			Peer:    func() string { return cl.Peer().String() },
		})

		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := srv.Run(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, context.Canceled) {
				logErrorAndExit(logger, "Unable to run HTTP server", slog.Any("err", err))
			}
		}()
	}

	if err := con.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Console stopped", slog.Any("err", err))
	}

	stop()
	wg.Wait()
	logger.Info("Bye!")
}

func loadConfig(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load(rootFlags.Config, cmd.Flags())
	if err != nil {
		exitWithError(err.Error())
		return nil
	}
	return cfg
}

func newLogger(cfg *config.Config) (*slog.Logger, io.Closer) {
	return logging.New(logging.Options{
		Level:      cfg.LogLevel(),
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
}

func logErrorAndExit(logger *slog.Logger, msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}
