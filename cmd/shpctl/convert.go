package main

import (
	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	var autoBalance bool
	cmd := &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Round-trip a shapefile through Reader and Writer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeSrc, err := openSource(args[0])
			if err != nil {
				return err
			}
			defer closeSrc()

			w, closeDst, err := openDest(args[1], autoBalance)
			if err != nil {
				return err
			}
			defer closeDst()
			w.SetShapeType(r.ShapeType())

			for _, f := range r.Fields() {
				if f.Name == "DeletionFlag" {
					continue
				}
				if err := w.Field(f.Name, f.Kind, f.Length, f.Decimal); err != nil {
					return err
				}
			}
			if prj, ok := r.Prj(); ok {
				w.SetPrj(prj)
			}
			w.SetCpg(r.Encoding())

			it := r.IterShapeRecords(nil, nil)
			for it.Next() {
				sr := it.ShapeRecord()
				if sr.Shape != nil {
					if err := w.Shape(sr.Shape); err != nil {
						return err
					}
				}
				if sr.Record != nil {
					if err := w.Record(sr.Record.Values...); err != nil {
						return err
					}
				}
			}
			if it.Err() != nil {
				return it.Err()
			}
			if err := w.Close(); err != nil {
				return err
			}
			if local, ok := destLocal(args[1]); ok {
				return local.WriteSidecar(w.Prj(), w.Cpg())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&autoBalance, "auto-balance", false, "pad whichever of shp/dbf trails the other")
	return cmd
}
