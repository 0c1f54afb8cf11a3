package main

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/avtools/resolvectl/cmd/resolvectl/internal/styles"
	"github.com/avtools/resolvectl/pkg/otio"
)

// runDiff compares two OTIO files. It prints a short structural summary of
// each, then a unified diff of the raw JSON.
func runDiff(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: resolvectl diff <a.otio> <b.otio>")
	}
	fileA, fileB := args[0], args[1]

	for _, path := range []string{fileA, fileB} {
		summary, err := otio.ReadSummary(path)
		if err != nil {
			return err
		}
		fmt.Println(styles.Bold.Render(path))
		fmt.Println(summary.String())
	}

	dataA, err := os.ReadFile(fileA)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}
	dataB, err := os.ReadFile(fileB)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(dataA)),
		B:        difflib.SplitLines(string(dataB)),
		FromFile: fileA,
		ToFile:   fileB,
		Context:  3,
	}

	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}

	if result == "" {
		fmt.Println(styles.Success.Render("Files are identical"))
		return nil
	}

	fmt.Print(result)
	return nil
}
