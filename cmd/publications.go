package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	publicationPage int
	publicationSize int
	publicationSort string
	pdfOutput       string
)

var publicationsCmd = &cobra.Command{
	Use:   "publications",
	Short: "List processed bulletins",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		loader := newLoader(publicationSize)
		if err := loader.LoadPublications(ctx, publicationPage, publicationSort); err != nil {
			return err
		}

		state := loader.State()
		out := cmd.OutOrStdout()

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tFILE")
		for _, p := range state.Publications.Get() {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.PublicationDate, p.Filename)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		printPages(out, state.PublicationPages)
		return nil
	},
}

var publicationPDFCmd = &cobra.Command{
	Use:   "pdf ID",
	Short: "Download the original document of a publication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid publication id %q", args[0])
		}

		ctx, stop := signalContext()
		defer stop()

		doc, err := newLoader(0).PublicationDocument(ctx, id)
		if err != nil {
			return err
		}

		path := pdfOutput
		if path == "" {
			path = fmt.Sprintf("borme-%d.pdf", id)
		}
		if path == "-" {
			_, err := cmd.OutOrStdout().Write(doc.Data)
			return err
		}

		if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}

		logger.Info("document saved", "path", path, "bytes", len(doc.Data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publicationsCmd)
	publicationsCmd.AddCommand(publicationPDFCmd)

	publicationsCmd.Flags().IntVar(&publicationPage, "page", 0, "Page number (0-based)")
	publicationsCmd.Flags().IntVar(&publicationSize, "size", 0, "Page size (default from config, 20)")
	publicationsCmd.Flags().StringVar(&publicationSort, "sort", "", "Sort as field,direction (default publicationDate,desc)")
	publicationPDFCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "Output file, - for stdout (default borme-ID.pdf)")
}
