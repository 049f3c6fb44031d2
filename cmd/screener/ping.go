package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"resume-screener/internal/ranking"
	"resume-screener/internal/shared/config"
)

var pingURL string

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the ranking service is reachable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		url := pingURL
		if url == "" {
			url = config.Load().RankingServiceURL
		}
		client, err := ranking.NewClient(url, 5*time.Second)
		if err != nil {
			return err
		}
		if err := client.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("ranking service at %s is not reachable: %w", client.BaseURL(), err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ranking service at %s is up\n", client.BaseURL())
		return nil
	},
}

func init() {
	pingCmd.Flags().StringVar(&pingURL, "url", "", "Ranking service base URL (overrides RANKING_SERVICE_URL)")
	rootCmd.AddCommand(pingCmd)
}
