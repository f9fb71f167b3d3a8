// genfixtures creates a folder of sample images for trying out the
// converter, including a subfolder for recursive-mode runs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phambaophuc/image-convert/internal/fixtures"
)

var (
	outDir string
	count  int
)

var rootCmd = &cobra.Command{
	Use:          "genfixtures",
	Short:        "Generate sample images for testing the converter",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := fixtures.WriteTree(outDir, count)
		if err != nil {
			return err
		}
		fmt.Printf("Created %d test images in %s\n", len(created), outDir)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "dir", "d", "test_images", "output directory")
	rootCmd.Flags().IntVarP(&count, "count", "n", 5, "images per format")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
