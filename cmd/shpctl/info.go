package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Print a header, field, and record-count summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeAll, err := openSource(args[0])
			if err != nil {
				return err
			}
			defer closeAll()

			fmt.Printf("shape type: %s\n", r.ShapeType())
			fmt.Printf("bbox:       %v\n", r.BBox())
			fmt.Printf("z range:    %v\n", r.ZRange())
			fmt.Printf("m range:    %v\n", r.MRange())
			fmt.Printf("encoding:   %s\n", r.Encoding())
			fmt.Printf("records:    %d\n", r.Len())
			if prj, ok := r.Prj(); ok {
				fmt.Printf("prj:        %s\n", prj)
			}
			fmt.Println("fields:")
			for _, f := range r.Fields() {
				fmt.Printf("  %-16s %c %3d %2d\n", f.Name, f.Kind, f.Length, f.Decimal)
			}
			return nil
		},
	}
}
