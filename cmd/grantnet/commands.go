package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"grantnet/internal/network/models"
	"grantnet/internal/network/store/board"
	"grantnet/internal/network/store/grants"
	"grantnet/internal/platform/postgres"
)

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var (
		sel        selection
		minFunders int
		purposes   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Find recipients funded by several of the given funders",
		Example: `  grantnet analyze --fixture grants.yaml --funders 13-1111111,13-2222222 --years 2021,2022,2023
  grantnet analyze --funders 13-1111111,13-2222222 --years 2023 --min-funders 2 --purposes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := opts.openService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			req := models.AnalysisRequest{
				FunderIDs:       sel.funders,
				Years:           sel.years,
				Geography:       sel.geography,
				IncludePurposes: purposes,
			}
			result, err := svc.Analyze(cmd.Context(), req.WithMinFunders(minFunders))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	sel.register(cmd)
	cmd.Flags().IntVar(&minFunders, "min-funders", models.DefaultMinFunders, "Minimum distinct funders for a recipient to be bundled")
	cmd.Flags().BoolVar(&purposes, "purposes", false, "Include grant purpose text in the output")
	return cmd
}

func newNetworkCmd(opts *globalOptions) *cobra.Command {
	var (
		sel        selection
		withBoard  bool
		centrality bool
	)
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Build the funder/recipient relationship graph",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := opts.openService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := svc.BuildNetwork(cmd.Context(), models.NetworkRequest{
				FunderIDs:    sel.funders,
				Years:        sel.years,
				Geography:    sel.geography,
				IncludeBoard: withBoard,
				Centrality:   centrality,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVar(&withBoard, "board", false, "Add board members as person nodes")
	cmd.Flags().BoolVar(&centrality, "centrality", false, "Compute betweenness and closeness")
	return cmd
}

func newPathwayCmd(opts *globalOptions) *cobra.Command {
	var (
		sel       selection
		from, to  string
		maxHops   int
		withBoard bool
	)
	cmd := &cobra.Command{
		Use:     "pathway",
		Short:   "List the shortest connections between two nodes",
		Example: `  grantnet pathway --fixture grants.yaml --funders f1,f2 --years 2023 --from f1 --to recipient:tax-id:123456789`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := opts.openService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			pathway, err := svc.FindPathway(cmd.Context(), models.PathwayRequest{
				Network: models.NetworkRequest{
					FunderIDs:    sel.funders,
					Years:        sel.years,
					Geography:    sel.geography,
					IncludeBoard: withBoard,
				},
				Source:  from,
				Target:  to,
				MaxHops: maxHops,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), pathway)
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "Source node id or funder id")
	cmd.Flags().StringVar(&to, "to", "", "Target node id or funder id")
	cmd.Flags().IntVar(&maxHops, "max-hops", 0, "Longest path to consider (0 uses the configured default)")
	cmd.Flags().BoolVar(&withBoard, "board", false, "Route through board members too")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newRecommendCmd(opts *globalOptions) *cobra.Command {
	var (
		sel        selection
		target     string
		minFunders int
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest recipients funded by the target's peer funders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeFn, err := opts.openService(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			analysis := models.AnalysisRequest{
				FunderIDs: sel.funders,
				Years:     sel.years,
				Geography: sel.geography,
			}
			report, err := svc.Recommend(cmd.Context(), models.RecommendRequest{
				Analysis:     analysis.WithMinFunders(minFunders),
				TargetFunder: target,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&target, "target", "", "Funder to recommend for")
	cmd.Flags().IntVar(&minFunders, "min-funders", models.DefaultMinFunders, "Minimum distinct funders for a recipient to be bundled")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newSeedCmd(opts *globalOptions) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML fixture into Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.fixture == "" {
				return fmt.Errorf("--fixture is required")
			}
			fixture, err := grants.LoadFixture(opts.fixture)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := opts.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if migrate {
				if err := postgres.Migrate(ctx, db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}
			if err := grants.NewPostgres(db).Insert(ctx, fixture.Grants); err != nil {
				return err
			}
			if err := board.NewPostgres(db).Insert(ctx, fixture.Board); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d grants and %d board memberships\n", len(fixture.Grants), len(fixture.Board))
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply schema migrations first")
	return cmd
}
