package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geolink-tools/geolink/internal/ui"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "geolink",
	Short: "Resolve the best downloadable link of ISO 19139 metadata records",
	Long:  longDescription,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		initUIAndBanner(cmd)
		return cmd.Help()
	},
}

var cfgFile string
var noColor bool

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetRootCmd returns the root command for use with fang
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.geolink.yaml or ./config/defaults.yaml)")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")
	pf.Duration("head-timeout", 0, "Timeout of a plain HEAD probe (default 3s)")
	pf.Duration("service-timeout", 0, "Timeout of a WFS GetFeature probe (default 5s)")
	pf.String("user-agent", "", "User-Agent sent with every probe")

	viper.BindPFlag("probe.head-timeout", pf.Lookup("head-timeout"))
	viper.BindPFlag("probe.service-timeout", pf.Lookup("service-timeout"))
	viper.BindPFlag("probe.user-agent", pf.Lookup("user-agent"))

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
		defaultHelp(cmd, args)
	})

	rootCmd.AddCommand(resolveCmd, candidatesCmd)
}

func initConfig() {
	// A missing .env is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, ui.GetWarnMark()+" "+ui.Warning.Render("ignoring .env: "+err.Error()))
	}

	// GEOLINK_RESOLVE_CSW overrides resolve.csw, and so on.
	viper.SetEnvPrefix("GEOLINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		cobra.CheckErr(viper.ReadInConfig())
		printConfigUsed()
		return
	}

	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath("./config")

	viper.SetConfigName(".geolink")
	err := viper.ReadInConfig()

	notFound := viper.ConfigFileNotFoundError{}
	if err != nil && errors.As(err, &notFound) {
		viper.SetConfigName("defaults")
		err = viper.ReadInConfig()
	}
	switch {
	case err != nil && !errors.As(err, &notFound):
		cobra.CheckErr(err)
	case err == nil:
		printConfigUsed()
	}
}

func printConfigUsed() {
	configMsg := ui.Dim.Render("Using config file: ") + ui.Secondary.Render(viper.ConfigFileUsed())
	fmt.Fprintln(os.Stderr, configMsg)
}

const longDescription = "Resolve the single best downloadable data link of an ISO 19139 metadata record. " +
	"Links are classified and ranked, probed in order, and WFS endpoints are negotiated to a concrete output format."

func initUIAndBanner(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	ui.Init(noColor || os.Getenv("NO_COLOR") != "")
	cmd.Root().Long = ui.RenderBanner() + "\n" + longDescription
}
