package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"grantnet/internal/network/service"
	"grantnet/internal/network/store/board"
	"grantnet/internal/network/store/grants"
	"grantnet/internal/platform/config"
	"grantnet/internal/platform/logger"
	"grantnet/internal/platform/postgres"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	fixture      string
	databaseURL  string
	analysisFile string
	logLevel     string
}

// selection is the funder/year scope shared by the query subcommands.
type selection struct {
	funders   []string
	years     []int
	geography string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&s.funders, "funders", nil, "Funder ids (tax ids or names), comma separated")
	cmd.Flags().IntSliceVar(&s.years, "years", nil, "Fiscal years, comma separated")
	cmd.Flags().StringVar(&s.geography, "geography", "", "Only include grants to recipients in this geography")
	_ = cmd.MarkFlagRequired("funders")
	_ = cmd.MarkFlagRequired("years")
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "grantnet",
		Short:         "Foundation network intelligence",
		Long:          `grantnet finds recipients co-funded by several foundations, compares foundation portfolios and maps funder, recipient and board relationships.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.fixture, "fixture", "", "YAML grant fixture to read instead of Postgres")
	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection URL")
	root.PersistentFlags().StringVar(&opts.analysisFile, "analysis-file", os.Getenv("GRANTNET_ANALYSIS_FILE"), "YAML analysis tuning file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newNetworkCmd(opts),
		newPathwayCmd(opts),
		newRecommendCmd(opts),
		newSeedCmd(opts),
	)
	return root
}

func (o *globalOptions) logger(cmd *cobra.Command) *slog.Logger {
	return logger.NewWithWriter(cmd.ErrOrStderr(), config.Log{Level: o.logLevel, Format: "text"})
}

// openService builds a service over the fixture or Postgres. The returned
// closer releases the database handle.
func (o *globalOptions) openService(ctx context.Context, cmd *cobra.Command) (*service.Service, func(), error) {
	log := o.logger(cmd)
	analysis := config.DefaultAnalysis()
	if o.analysisFile != "" {
		if err := analysis.LoadFile(o.analysisFile); err != nil {
			return nil, nil, err
		}
	}
	opts := []service.Option{
		service.WithLogger(log),
		service.WithAnalysisConfig(analysis),
	}

	if o.fixture != "" {
		fixture, err := grants.LoadFixture(o.fixture)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, service.WithBoardStore(board.NewInMemory(fixture.Board...)))
		svc, err := service.New(grants.NewInMemory(fixture.Grants...), opts...)
		return svc, func() {}, err
	}

	db, err := o.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, service.WithBoardStore(board.NewPostgres(db)))
	svc, err := service.New(grants.NewPostgres(db), opts...)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return svc, func() { _ = db.Close() }, nil
}

func (o *globalOptions) openDB(ctx context.Context) (*sql.DB, error) {
	if o.databaseURL == "" {
		return nil, fmt.Errorf("either --fixture or --database-url is required")
	}
	return postgres.Open(ctx, config.Database{URL: o.databaseURL, MaxOpenConns: 4})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
