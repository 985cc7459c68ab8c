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
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/blacktop/lcdump/internal/colors"
	"github.com/blacktop/lcdump/internal/commands/lcdump"
	"github.com/blacktop/lcdump/internal/config"
	"github.com/blacktop/lcdump/internal/magic"
	"github.com/blacktop/lcdump/pkg/macho"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// Verbose boolean flag for verbose logging
	Verbose bool
	// AppVersion stores the plugin's version
	AppVersion string
	// AppBuildTime stores the plugin's build time
	AppBuildTime string

	conf *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lcdump <input> <output>",
	Short: "Decode the load commands of a Mach-O file",
	Long: heredoc.Doc(`
		Decode the header and load commands of a Mach-O file and write the
		minimum macOS version and the 64-bit segment names to <output>.`),
	Example: heredoc.Doc(`
		# Report the SDK version and segment names of a binary
		❯ lcdump /usr/bin/true report.txt
		# Reject malformed load commands
		❯ lcdump --strict ./a.out report.txt`),
	Args:              cobra.ExactArgs(2),
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return decodeToFile(args[0], args[1], conf.Macho())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	log.SetHandler(clihander.Default)

	cobra.OnInitialize(initConfig)

	// Flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/lcdump/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().String("color", colors.ModeAuto, "colorize output (auto, always, never)")
	rootCmd.PersistentFlags().Bool("strict", false, "Validate every load command against cmdsize and sizeofcmds")
	rootCmd.PersistentFlags().Bool("no-swap", false, "Do not byte-swap files written in the opposite byte order")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	viper.BindPFlag("decode.strict", rootCmd.PersistentFlags().Lookup("strict"))
	viper.BindPFlag("decode.no-swap", rootCmd.PersistentFlags().Lookup("no-swap"))
	// Settings
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		path, err := config.DefaultPath()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Dir(path))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(config.KeyReplacer)
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if c.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	force, err := colors.ParseMode(c.Color)
	if err != nil {
		return err
	}
	colors.Init(force)
	conf = c
	return nil
}

// decodeToFile decodes input and writes its report to output. Nothing is
// written unless the whole file decodes.
func decodeToFile(input, output string, mconf *macho.Config) error {
	if k, err := magic.Detect(input); err != nil {
		return err
	} else if k == magic.Universal {
		return fmt.Errorf("%s is a universal binary; extract a single architecture first", input)
	}

	m, err := macho.Open(input, mconf)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"magic":    m.Magic,
		"commands": len(m.Commands),
	}).Debug("Decoded")

	out, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", output)
	}
	if err := lcdump.Report(out, m.Commands); err != nil {
		out.Close()
		return errors.Wrapf(err, "failed to write %s", output)
	}
	return out.Close()
}
