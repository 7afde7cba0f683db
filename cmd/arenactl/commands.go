package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gonadarena/internal/api/dto"
	"gonadarena/internal/api/middleware"
	"gonadarena/internal/config"
)

type options struct {
	api     string
	token   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "arenactl",
		Short:        "Operate a running GONAD Arena service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.api, "api", envOr("ARENA_API", "http://localhost:8080"), "Base URL of the arena service")
	root.PersistentFlags().StringVar(&opts.token, "token", envOr("ARENA_TOKEN", ""), "Operator JWT for write actions")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 90*time.Second, "Request timeout")

	root.AddCommand(
		newTokenCmd(),
		newLeaderboardCmd(opts),
		newGladiatorCmd(opts),
		newFightCmd(opts),
		newTxCmd(opts),
		newRosterCmd(opts),
	)
	return root
}

func newTokenCmd() *cobra.Command {
	var (
		name string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token signed with JWT_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			token, err := middleware.IssueOperatorToken(cfg.JWTKey, name, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "operator", "Operator name stored in the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func newLeaderboardCmd(opts *options) *cobra.Command {
	var (
		sort string
		page int
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print a leaderboard page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			q.Set("sort", sort)
			q.Set("page", strconv.Itoa(page))

			var board dto.Leaderboard
			if err := opts.client().get("/api/leaderboard?"+q.Encode(), &board); err != nil {
				return err
			}
			printLeaderboard(cmd.OutOrStdout(), board)
			return nil
		},
	}
	cmd.Flags().StringVar(&sort, "sort", "earnings", "Sort key: earnings, wins, streak, efficiency")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func printLeaderboard(w io.Writer, board dto.Leaderboard) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tGLADIATOR\tLEVEL\tWINS\tLOSSES\tSTREAK\tEARNINGS")
	for _, e := range board.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			e.Rank, e.DisplayName, e.Level, e.Wins, e.Losses, e.WinStreak, e.EarningsTokens)
	}
	tw.Flush()
	fmt.Fprintf(w, "sort=%s page %d/%d (%d gladiators)\n", board.Sort, board.Page, board.Pages, board.Total)
}

func newGladiatorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "gladiator <address>",
		Short: "Show a gladiator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var g dto.Gladiator
			if err := opts.client().get("/api/gladiators/"+url.PathEscape(args[0]), &g); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), g)
		},
	}
}

func newFightCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fight <opponent>",
		Short: "Fight an opponent with the service wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out json.RawMessage
			if err := opts.client().post("/api/actions/fight", dto.FightRequest{Opponent: args[0]}, &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newTxCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tx <id>",
		Short: "Show a tracked transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out json.RawMessage
			if err := opts.client().get("/api/actions/"+url.PathEscape(args[0]), &out); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newRosterCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "roster [status|pause|resume|refresh]",
		Short:     "Show or steer the background roster refresh",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"status", "pause", "resume", "refresh"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				status dto.RosterStatus
				err    error
			)
			if len(args) == 0 || args[0] == "status" {
				err = opts.client().get("/api/operator/roster", &status)
			} else {
				err = opts.client().post("/api/operator/roster/"+args[0], nil, &status)
			}
			if err != nil {
				return err
			}
			state := "running"
			if status.Paused {
				state = "paused"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "roster refresh %s\n", state)
			return nil
		},
	}
}

func (o *options) client() *client {
	return newClient(o.api, o.token, o.timeout)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
