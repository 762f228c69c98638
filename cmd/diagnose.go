package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/syncrate/internal/diagnostics"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <file>",
	Short: "Diagnose a C# source file (use - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := readSource(cmd, args[0])
		if err != nil {
			return err
		}
		expectFlag, _ := cmd.Flags().GetString("expect")
		expected, ok := diagnostics.ParsePattern(expectFlag)
		if !ok {
			return fmt.Errorf("unknown --expect %q (want loop, condition or none)", expectFlag)
		}
		syntaxOnly, _ := cmd.Flags().GetBool("syntax")
		asJSON, _ := cmd.Flags().GetBool("json")
		review, _ := cmd.Flags().GetBool("review")

		if syntaxOnly {
			check := diagnostics.CheckSyntax(code)
			res := diagnostics.DiagnoseSyntax(code)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), struct {
					diagnostics.SyntaxCheck
					Result *diagnostics.Result `json:"result,omitempty"`
				}{check, res})
			}
			if res == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "✓ syntax looks valid")
				return nil
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		}

		rt, err := openRuntime(cmd, review)
		if err != nil {
			return err
		}
		defer rt.Close()

		student, _ := cmd.Flags().GetString("student")
		req := &diagnostics.Request{Code: code, Expected: expected}
		if student != "" {
			p, err := rt.profiles.Find(cmd.Context(), student)
			if err != nil {
				return fmt.Errorf("find student: %w", err)
			}
			req.StudentID = p.ID
		}

		var res *diagnostics.Result
		if review {
			if !rt.diagnostics.CanReview() {
				return fmt.Errorf("--review needs an LLM provider (set llm.provider or an *_API_KEY variable)")
			}
			res = rt.diagnostics.Review(cmd.Context(), req)
		} else {
			res = rt.diagnostics.Diagnose(cmd.Context(), req, nil)
		}

		if asJSON {
			return printJSON(cmd.OutOrStdout(), res)
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func printResult(w io.Writer, r *diagnostics.Result) {
	fmt.Fprintf(w, "[%s] %s\n", strings.ToUpper(string(r.Severity)), r.Title)
	fmt.Fprintln(w, r.Message)
	for _, s := range r.Suggestions {
		fmt.Fprintf(w, "  • %s\n", s)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	diagnoseCmd.Flags().String("expect", "", "Expected pattern: loop, condition or none")
	diagnoseCmd.Flags().Bool("syntax", false, "Only run the syntax check")
	diagnoseCmd.Flags().Bool("json", false, "Print the result as JSON")
	diagnoseCmd.Flags().Bool("review", false, "Ask the configured LLM for a review")
	diagnoseCmd.Flags().String("student", "", "Attribute the diagnosis to this profile")
}
