/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/opustran/internal/config"
)

var version = "0.1.0"

var (
	cfgFile string
	cfg     *config.Config
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "opustran",
	Short: "Opus-MT Language Translator",
	Long: `A translator that picks a pre-trained Opus-MT model for a source and
target language, loads it once, and translates text with it.

Supported languages: English, Spanish, French, German, Italian, Portuguese,
Dutch, Chinese, Japanese, Korean.

Use "opustran translate --help" for translation options and
"opustran serve" for the web interface.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noDB, _ := cmd.Flags().GetBool("no-db"); noDB {
			viper.Set("db.enabled", false)
		}
		loaded, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = setupLogger(cfg.Log.Env)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func setupLogger(env string) *zap.Logger {
	var l *zap.Logger
	var err error
	if env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		return zap.NewNop()
	}
	return l
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./opustran.yaml or $HOME/.config/opustran/opustran.yaml)")
	pf.String("db", "", "Database path for the model catalog")
	pf.Bool("no-db", false, "Disable the model catalog")
	pf.String("hub-url", "", "Model hub base URL")
	pf.String("inference-url", "", "Inference endpoint base URL")
	pf.Duration("timeout", 0, "Runtime request timeout (0 waits indefinitely)")
	pf.Bool("protect-markup", false, "Keep code spans and HTML tags out of the model input")
	pf.Bool("check-output", false, "Warn when a translation does not look like the target language")
	pf.String("log-env", "", "Logger preset: development or production")

	bindFlag("db.path", "db")
	bindFlag("runtime.hub_url", "hub-url")
	bindFlag("runtime.inference_url", "inference-url")
	bindFlag("runtime.timeout", "timeout")
	bindFlag("translate.protect_markup", "protect-markup")
	bindFlag("translate.check_output", "check-output")
	bindFlag("log.env", "log-env")
}

// bindFlag binds a persistent flag to a config key. Flags only override the
// config when set explicitly.
func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}
