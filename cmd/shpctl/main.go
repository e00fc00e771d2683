// Command shpctl inspects, dumps, and converts ESRI shapefiles.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GeospatialPython/pyshp"
)

var (
	flagEncoding       string
	flagEncodingErrors string
	flagFromZip        string
	flagFromURL        string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shpctl",
		Short: "Inspect, dump, and convert ESRI shapefiles",
	}
	root.PersistentFlags().StringVar(&flagEncoding, "encoding", "", "text encoding label (e.g. utf-8, windows-1252)")
	root.PersistentFlags().StringVar(&flagEncodingErrors, "encoding-errors", "strict", "strict, replace, or ignore")
	root.PersistentFlags().StringVar(&flagFromZip, "from-zip", "", "read the triplet from inside this zip archive instead of a directory")
	root.PersistentFlags().StringVar(&flagFromURL, "from-url", "", "read the triplet from this base URL instead of a directory")

	root.AddCommand(infoCmd(), dumpCmd(), convertCmd())
	return root
}

func encodingErrorPolicy(s string) (shapefile.EncodingErrorPolicy, error) {
	switch s {
	case "strict", "":
		return shapefile.Strict, nil
	case "replace":
		return shapefile.Replace, nil
	case "ignore":
		return shapefile.Ignore, nil
	default:
		return shapefile.Strict, fmt.Errorf("unknown --encoding-errors %q", s)
	}
}
