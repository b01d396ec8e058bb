package main

import (
	"fmt"

	"github.com/khryptorgraphics/ftrmff/internal/validate"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a descriptor file for invalid input without scheduling",
		RunE:  runValidate,
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "path to a task/processor descriptor YAML file (required)")
	cmd.Flags().IntVar(&consistencyLevel, "consistency-level", -1, "override the descriptor's consistency level (k)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	descriptor, err := loadDescriptor(inputPath)
	if err != nil {
		return err
	}

	k := descriptor.ConsistencyLevel
	if consistencyLevel >= 0 {
		k = consistencyLevel
	}

	if err := validate.Input(descriptor.Processors, descriptor.tasks(), k); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "input is valid")
	return nil
}
