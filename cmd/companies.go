package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/model"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/service"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/store"
)

var (
	companyQuery service.CompanyQuery
	companySize  int
	companyJSON  bool
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List or search companies",
	Long: `List companies known to the backend.

Without filters every company is listed. --date lists the companies of one
bulletin; any of the search filters switches to a search.

Examples:
  ./borme companies --page 2
  ./borme companies --date 2024-01-15
  ./borme companies --name acme --from 2024-01-01 --to 2024-06-30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		loader := newLoader(companySize)
		if err := loader.LoadCompanies(ctx, companyQuery); err != nil {
			return err
		}

		state := loader.State()
		companies := state.Companies.Get()
		out := cmd.OutOrStdout()
		if companyJSON {
			return writeJSON(out, companies)
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCAPITAL\tSTART DATE")
		for _, c := range companies {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.BormeID, c.Name, c.Capital, c.StartDate)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		printPages(out, state.CompanyPages)
		return nil
	},
}

var companyGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show a single company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		company, err := newLoader(0).LoadCompany(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if companyJSON {
			return writeJSON(out, company)
		}
		printCompany(out, company)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(companiesCmd)
	companiesCmd.AddCommand(companyGetCmd)

	flags := companiesCmd.Flags()
	flags.StringVarP(&companyQuery.Date, "date", "d", "", "Bulletin date (YYYY-MM-DD)")
	flags.StringVar(&companyQuery.Filter.Name, "name", "", "Company name contains")
	flags.StringVar(&companyQuery.Filter.Admin, "admin", "", "Administrator name")
	flags.StringVar(&companyQuery.Filter.SolePartner, "sole-partner", "", "Sole partner name")
	flags.StringVar(&companyQuery.Filter.StartDate, "from", "", "Start date lower bound (YYYY-MM-DD)")
	flags.StringVar(&companyQuery.Filter.EndDate, "to", "", "Start date upper bound (YYYY-MM-DD)")
	flags.IntVar(&companyQuery.Page, "page", 0, "Page number (0-based)")
	flags.IntVar(&companySize, "size", 0, "Page size (default from config, 20)")
	flags.StringVar(&companyQuery.Sort, "sort", "", "Sort as field,direction (default startDate,desc)")

	companiesCmd.PersistentFlags().BoolVar(&companyJSON, "json", false, "Print JSON instead of a table")
}

func printCompany(w io.Writer, c *model.Company) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", label, value)
		}
	}
	row("ID", c.BormeID)
	row("Name", c.Name)
	row("Object", c.Object)
	row("Capital", c.Capital)
	row("Start date", c.StartDate)
	row("Administrator", c.Admin)
	row("Sole partner", c.SolePartner)
	tw.Flush()
}

// printPages prints the cursor and the --page values of its neighbours
func printPages(w io.Writer, p *store.Pagination) {
	s := p.Get()
	fmt.Fprintf(w, "\nPage %d of %d (%d results)\n", s.CurrentPage+1, max(s.TotalPages, 1), s.TotalElements)

	p.PrevPage(func(page int) {
		fmt.Fprintf(w, "Previous: --page %d\n", page)
	})
	p.NextPage(func(page int) {
		fmt.Fprintf(w, "Next: --page %d\n", page)
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
