package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regionkit/layout"
	"github.com/joshuapare/regionkit/verify"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Boot the layout and check every invariant",
		Long: `The validate command loads the layout table, boots it and runs every
structural check: trees are disjoint, the roots are fully covered, linked
regions pair up and the arena bound holds.

Example:
  kregionctl validate --layout board.yaml
  kregionctl validate --seed 3 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
	return cmd
}

// validationResult is reported by validate and watch.
type validationResult struct {
	Layout  string         `json:"layout"`
	Valid   bool           `json:"valid"`
	Stage   string         `json:"stage,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func validateCurrent() validationResult {
	res := validationResult{Layout: layoutPath, Valid: true}
	if res.Layout == "" {
		res.Layout = "(default)"
	}

	fail := func(stage string, err error) validationResult {
		res.Valid, res.Stage, res.Error = false, stage, err.Error()
		var ve *verify.ValidationError
		if errors.As(err, &ve) {
			res.Details = ve.Details
		}
		return res
	}

	l, err := buildLayout()
	switch {
	case errors.Is(err, layout.ErrBootstrap):
		return fail("bootstrap", err)
	case err != nil:
		return fail("table", err)
	}
	if err := verify.Layout(l); err != nil {
		return fail("verify", err)
	}
	return res
}

func runValidate() error {
	res := validateCurrent()

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		reportValidation(res)
	}

	if !res.Valid {
		return errors.New("layout is invalid")
	}
	return nil
}

func reportValidation(res validationResult) {
	printInfo("\nValidating %s...\n\n", res.Layout)
	if res.Valid {
		printInfo("  ✓ Table valid\n")
		printInfo("  ✓ Bootstrap succeeded\n")
		printInfo("  ✓ All invariants hold\n")
		return
	}
	printInfo("  ✗ %s failed: %s\n", res.Stage, res.Error)
}
