package dylink

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dylink/dylink/pkg/core"
)

func init() {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List supported target triples",
		Run: func(_ *cobra.Command, _ []string) {
			for _, t := range core.Targets() {
				fmt.Println(t)
			}
		},
	}
	rootCmd.AddCommand(cmd)
}
