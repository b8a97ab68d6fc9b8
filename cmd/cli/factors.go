package main

import (
	"fmt"
	"strings"

	"cryptofactor/internal/domain"
	l2_service "cryptofactor/internal/service/l2"

	"github.com/spf13/cobra"
)

func factorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factors",
		Short: "List supported factor types and expression functions",
		Run: func(c *cobra.Command, args []string) {
			out := c.OutOrStdout()
			for _, f := range domain.AllFactorTypes() {
				fmt.Fprintln(out, strings.ToLower(string(f)))
			}
			fmt.Fprintf(out, "\nexpression functions: %s\n", strings.Join(l2_service.ExpressionFunctions(), ", "))
		},
	}
}
