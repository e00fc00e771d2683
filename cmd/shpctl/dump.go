package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/GeospatialPython/pyshp"
)

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <path>",
		Short: "Write one GeoJSON feature per line to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeAll, err := openSource(args[0])
			if err != nil {
				return err
			}
			defer closeAll()

			enc := json.NewEncoder(os.Stdout)
			it := r.IterShapeRecords(nil, nil)
			for it.Next() {
				f, err := shapefile.ToFeature(it.ShapeRecord())
				if err != nil {
					return err
				}
				b, err := f.MarshalJSON()
				if err != nil {
					return err
				}
				var raw json.RawMessage = b
				if err := enc.Encode(raw); err != nil {
					return err
				}
			}
			if it.Err() != nil {
				return it.Err()
			}
			return nil
		},
	}
}
