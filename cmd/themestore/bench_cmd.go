package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/themestore/internal/log"
	"github.com/raphi011/themestore/internal/output"
)

// benchResult holds request latencies of a bench run.
type benchResult struct {
	Requests int           `json:"requests"`
	Last     time.Duration `json:"last_ns"`
	Average  time.Duration `json:"average_ns"`
	Errors   int           `json:"errors"`
}

func newBenchCmd() *cobra.Command {
	var (
		baseURL    string
		name       string
		count      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "bench",
		Short:   "Measure GET latency against a running server",
		GroupID: GroupServer,
		Args:    cobra.NoArgs,
		Long: `Measure GET latency against a running server.

Requests /theme/NAME sequentially and prints the latency of the last
request and the average over all requests. Non-200 responses are
counted as errors.`,
		Example: `  themestore bench --name test15
  themestore bench --url http://localhost:9000 --name test15 -n 1000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}
			res, err := runBench(cmd.Context(), http.DefaultClient, baseURL, name, count)
			if err != nil {
				return err
			}

			out := output.FromContext(cmd.Context())
			if jsonOutput {
				return out.JSON(res)
			}
			out.Printf("requests: %d\n", res.Requests)
			out.Printf("last:     %s\n", res.Last)
			out.Printf("average:  %s\n", res.Average)
			if res.Errors > 0 {
				out.Printf("errors:   %d\n", res.Errors)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8000", "Server base URL")
	cmd.Flags().StringVar(&name, "name", "test15", "Theme to request")
	cmd.Flags().IntVarP(&count, "count", "n", 100, "Number of requests")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// runBench issues count sequential GETs for name. Transport errors
// abort the run; error statuses are counted.
func runBench(ctx context.Context, client *http.Client, baseURL, name string, count int) (benchResult, error) {
	target := strings.TrimRight(baseURL, "/") + "/theme/" + url.PathEscape(name)
	l := log.FromContext(ctx)

	var res benchResult
	var total time.Duration
	for i := 0; i < count; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return res, err
		}

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			return res, fmt.Errorf("request %d: %w", i+1, err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		elapsed := time.Since(start)

		if resp.StatusCode != http.StatusOK {
			res.Errors++
			l.Debug("bench request failed", "status", resp.StatusCode)
		}
		res.Requests++
		res.Last = elapsed
		total += elapsed
	}
	res.Average = total / time.Duration(res.Requests)
	return res, nil
}
