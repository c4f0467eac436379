package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search every connected provider",
	Long: `Sends the query to every provider the user has connected and prints the
ranked results. Providers that fail or time out are listed after the results;
the search still succeeds with what the others returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results to print")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the full response envelope as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	user, err := requireUser()
	if err != nil {
		return err
	}
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	resp, err := rt.Search.Search(cmd.Context(), domain.SearchRequest{
		Query:          args[0],
		UserID:         user,
		OrganizationID: orgID,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	outputSearchTable(cmd, resp)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse) {
	if resp.Query.Processed != "" && resp.Query.Processed != resp.Query.Original {
		cmd.Printf("Searched for: %s\n", resp.Query.Processed)
	}

	if len(resp.Data) == 0 {
		cmd.Println("No results found.")
	} else {
		order := "ranked"
		if !resp.Query.Ranked {
			order = "newest first"
		}
		cmd.Printf("Results (%d, %s, %dms):\n", resp.TotalCount, order, resp.ProcessingTimeMs)
		cmd.Println()

		results := resp.Data
		if searchLimit > 0 && len(results) > searchLimit {
			results = results[:searchLimit]
		}
		for i := range results {
			r := &results[i]
			title := r.Title
			if title == "" {
				title = r.ID
			}
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, r.Score)
			cmd.Printf("      Source: %s", r.Source.Description())
			if r.Author != "" {
				cmd.Printf(" · %s", r.Author)
			}
			if r.CreatedAt != nil {
				cmd.Printf(" · %s", r.CreatedAt.Format("2006-01-02"))
			}
			cmd.Println()
			if snippet := firstLine(r.Content, 100); snippet != "" {
				cmd.Printf("      %s\n", snippet)
			}
			if r.URL != "" {
				cmd.Printf("      %s\n", r.URL)
			}
			cmd.Println()
		}
	}

	if len(resp.Failures) > 0 {
		cmd.Println("Unavailable providers:")
		for _, f := range resp.Failures {
			cmd.Printf("  - %s: %s\n", f.Provider.Description(), f.Class)
		}
	}
}

func firstLine(s string, n int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) > n {
		return string(r[:n]) + "…"
	}
	return s
}
