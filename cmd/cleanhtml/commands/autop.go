package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vpotap/CleanHTML/pkg/cleanhtml"
)

var autopCmd = &cobra.Command{
	Use:   "autop [file]",
	Short: "Reconstruct paragraphs from loose text",
	Long: `Autop runs only the paragraph reconstruction step: blank lines become
paragraph boundaries, block tags stay outside paragraphs, and preformatted
blocks pass through untouched. Reads stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAutop,
}

func init() {
	rootCmd.AddCommand(autopCmd)

	autopCmd.Flags().Bool("br", true, "convert remaining single newlines to <br /> tags")
	_ = viper.BindPFlag("line_breaks", autopCmd.Flags().Lookup("br"))
}

func runAutop(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	out := cleanhtml.Reconstruct(string(raw), viper.GetBool("line_breaks"))
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
