/*
Copyright © 2018-2023 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/lcdump/internal/colors"
	"github.com/blacktop/lcdump/internal/commands/lcdump"
	"github.com/caarlos0/ctrlc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolP("header", "d", false, "Print the mach header")
	infoCmd.Flags().BoolP("loads", "l", false, "Print the load commands")
	infoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	infoCmd.Flags().IntP("jobs", "J", 0, "Number of files to decode at once (default: number of CPUs)")
	viper.BindPFlag("info.header", infoCmd.Flags().Lookup("header"))
	viper.BindPFlag("info.loads", infoCmd.Flags().Lookup("loads"))
	viper.BindPFlag("info.json", infoCmd.Flags().Lookup("json"))
	viper.BindPFlag("info.jobs", infoCmd.Flags().Lookup("jobs"))
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:     "info <macho>...",
	Aliases: []string{"i"},
	Short:   "Print the header and load commands of Mach-O files",
	Example: heredoc.Doc(`
		# Print the header and load commands
		❯ lcdump info /usr/bin/true
		# Only the load commands, as JSON
		❯ lcdump info --loads --json ./a.out
		# Decode a directory of binaries four at a time
		❯ lcdump info -J 4 build/*.dylib`),
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		showHeader := viper.GetBool("info.header")
		showLoadCommands := viper.GetBool("info.loads")
		if !showHeader && !showLoadCommands {
			showHeader, showLoadCommands = true, true
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var results []lcdump.Result
		if err := ctrlc.Default.Run(ctx, func() error {
			var err error
			results, err = lcdump.DecodeAll(ctx, args, conf.Macho(), conf.Info.Jobs)
			return err
		}); err != nil {
			if errors.As(err, &ctrlc.ErrorCtrlC{}) {
				log.Warn("Exiting...")
			}
			return err
		}

		var failed int
		w := cmd.OutOrStdout()

		if conf.Info.JSON {
			files := make([]lcdump.FileJSON, 0, len(results))
			for _, r := range results {
				if r.Err != nil {
					failed++
					files = append(files, lcdump.FileJSON{Path: r.Path, Error: r.Err.Error()})
					continue
				}
				files = append(files, lcdump.ToJSON(r.Path, r.File))
			}
			if err := lcdump.WriteJSON(w, files...); err != nil {
				return err
			}
		} else {
			for i, r := range results {
				if r.Err != nil {
					failed++
					log.WithError(r.Err).Error(colors.Red().Sprint(r.Path))
					continue
				}
				name := ""
				if len(results) > 1 {
					name = r.Path
				}
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := lcdump.Info(w, name, r.File, &lcdump.InfoConfig{
					Header:       showHeader,
					LoadCommands: showLoadCommands,
					Verbose:      conf.Verbose,
				}); err != nil {
					return err
				}
			}
		}

		if failed > 0 {
			return fmt.Errorf("failed to decode %d of %d files", failed, len(results))
		}
		return nil
	},
}
