package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"search-gateway/internal/config"
	"search-gateway/internal/gateway"

	"github.com/spf13/cobra"
)

var searchMaxResults int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one search against YouTube and print the JSON result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		yt := gateway.NewYouTubeClient(cfg.YouTubeAPIKey, cfg.YouTubeSearchURL, cfg.UpstreamTimeout)
		srv := gateway.NewServer(cfg, yt, newLogger(os.Stderr, cfg.LogLevel))
		return runSearch(cmd.Context(), srv, strings.Join(args, " "), searchMaxResults, cmd.OutOrStdout())
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "n", 5, "Number of results to request")
}

// runSearch prints either the results or the error body the HTTP endpoint
// would have returned, and fails with the HTTP status in the error.
func runSearch(ctx context.Context, srv *gateway.Server, query string, maxResults int, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	resp, err := srv.Search(ctx, query, strconv.Itoa(maxResults))
	if err != nil {
		status, body := gateway.ErrorResponseFor(err)
		if encErr := enc.Encode(body); encErr != nil {
			return encErr
		}
		return fmt.Errorf("search failed with status %d", status)
	}
	return enc.Encode(resp)
}
