package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gripfinance/grip-backend/internal/apperrors"
	"github.com/gripfinance/grip-backend/internal/model"
	"github.com/gripfinance/grip-backend/internal/statement"
)

// parseOutput is what the parse command prints.
type parseOutput struct {
	Source       model.StatementSource     `json:"source"`
	FileName     string                    `json:"file_name"`
	Recognized   bool                      `json:"recognized"`
	HeaderRow    int                       `json:"header_row"`
	DroppedRows  int                       `json:"dropped_rows"`
	Transactions []model.ParsedTransaction `json:"transactions"`
}

func newParseCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a statement file and print the transactions as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), args[0], model.ParseStatementSource(source))
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "statement source (cams, kfintech, mfcentral)")

	return cmd
}

func runParse(w io.Writer, path string, source model.StatementSource) error {
	f, err := os.Open(path) //nolint:gosec // G304: path is a user supplied CLI argument
	if err != nil {
		return fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	res, err := statement.ParseFile(path, f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	out := parseOutput{
		Source:       source,
		FileName:     filepath.Base(path),
		Recognized:   res.Recognized,
		HeaderRow:    res.HeaderRow,
		DroppedRows:  res.Dropped,
		Transactions: res.Transactions,
	}
	if out.Transactions == nil {
		out.Transactions = []model.ParsedTransaction{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(res.Transactions) == 0 {
		return apperrors.ErrStatementNotRecognized
	}
	return nil
}
