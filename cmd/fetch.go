package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bootnet.xyz/snet/internal/fetch"
)

var (
	fetchOutput   string
	fetchHeadOnly bool
	fetchProbe    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Retrieve a file over HTTP with adaptive buffer sizing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			exitWithError("loading config", err)
		}
		url := args[0]

		timeout := time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second
		client := fetch.NewClient(fetch.NewHTTPTransport(timeout))
		ctx := context.Background()

		if fetchHeadOnly || fetchProbe {
			resp, err := client.DoRequest(ctx, url, fetch.MethodHead)
			if err != nil {
				exitWithError("head request", err)
			}
			printHeaders(resp)
			if fetchHeadOnly {
				return
			}
		}

		resp, err := client.DoRequest(ctx, url, fetch.MethodGet)
		if err != nil {
			exitWithError("get request", err)
		}
		fmt.Fprintf(os.Stderr, "%d bytes received, status %d\n", resp.FileSize, resp.StatusCode)

		body := resp.Body[:resp.FileSize]
		if fetchOutput == "" || fetchOutput == "-" {
			os.Stdout.Write(body)
			return
		}
		if err := os.WriteFile(fetchOutput, body, 0o644); err != nil {
			exitWithError("writing output", err)
		}
	},
}

func printHeaders(resp *fetch.Response) {
	for _, h := range fetch.ParseHeaders(resp.RawHeaders, 32) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", h.Name, h.Value)
	}
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "output file (default stdout)")
	fetchCmd.Flags().BoolVar(&fetchHeadOnly, "head", false, "issue a HEAD request only")
	fetchCmd.Flags().BoolVar(&fetchProbe, "probe", true, "probe the size with HEAD before the GET")
}
