package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var lookupRARC bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <code>",
	Short: "Look up a CARC or RARC code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, refs := buildEngine(cfg)

		code := strings.TrimSpace(args[0])
		if lookupRARC {
			desc, ok := refs.rarc[code]
			if !ok {
				fmt.Printf("RARC %s not found.\n", code)
				printSuggestions(refs.rarc, code)
				return nil
			}
			fmt.Printf("RARC %s: %s\n", code, desc)
			return nil
		}

		desc, ok := refs.carc[code]
		if !ok {
			fmt.Printf("CARC %s not found.\n", code)
			printSuggestions(refs.carc, code)
			return nil
		}

		entry := refs.matrix.Classify(code)
		fmt.Printf("CARC %s: %s\n", code, desc)
		fmt.Printf("  Status:   %s\n", entry.Status.Label())
		fmt.Printf("  Category: %s\n", entry.Category)
		fmt.Printf("  Action:   %s\n", entry.Action)
		return nil
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupRARC, "rarc", false, "look up a remark (RARC) code instead")
	rootCmd.AddCommand(lookupCmd)
}

// suggestCodes returns up to five codes that contain or are contained by
// the query, in sorted order.
func suggestCodes(ref map[string]string, query string) []string {
	var matches []string
	q := strings.ToUpper(query)
	for code := range ref {
		c := strings.ToUpper(code)
		if strings.Contains(c, q) || strings.Contains(q, c) {
			matches = append(matches, code)
		}
	}
	sort.Strings(matches)
	if len(matches) > 5 {
		matches = matches[:5]
	}
	return matches
}

func printSuggestions(ref map[string]string, query string) {
	matches := suggestCodes(ref, query)
	if len(matches) == 0 {
		return
	}
	fmt.Println("Did you mean:")
	for _, code := range matches {
		fmt.Printf("  %s: %s\n", code, ref[code])
	}
}
