package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mezquit/mezquit/internal/logging"
)

// RootCmd is the mezquit command line entry point: an MQTT 3.1.1 client CLI wrapping the
// internal/engine Session.
var RootCmd = &cobra.Command{
	Use:   "mezquit",
	Short: "mezquit is a command line MQTT 3.1.1 client",
	Long: `mezquit connects to an MQTT broker and publishes or subscribes to topics.

Configuration is read from flags, then from MEZQUIT_-prefixed environment variables, then
from a $HOME/.mezquit.yaml config file, in that order of precedence. Only the loglevel,
broker and client settings are read from the environment and the config file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetLevelFromName(LogLevel)
	},
}

// LogLevel is the logrus level name (e.g. "debug", "info", "warn").
var LogLevel string

// CfgFile is an explicit path to a config file, overriding the default $HOME/.mezquit.yaml.
var CfgFile string

// MQTTBroker is the MQTT host:port to dial.
var MQTTBroker string

// MQTTClientName is the MQTT client identifier - a random short UUID by default.
var MQTTClientName string

// UserName is the MQTT CONNECT user name field.
var UserName string

// Password is the MQTT CONNECT password field, given literally on the command line.
var Password string

// JWTKey is an HMAC signing key; when set, the CONNECT password is a JWT signed with it
// instead of the literal --password value (see internal/mqtt/jwtauth.go).
var JWTKey string

// KeepAliveSeconds is the MQTT keep-alive interval, shared by every subcommand that connects.
var KeepAliveSeconds int

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&CfgFile, "config", "", "", "config file (default is $HOME/.mezquit.yaml)")
	flags.StringVarP(&LogLevel, "loglevel", "l", "warn", "log level: trace, debug, info, warn, error")
	flags.StringVarP(&MQTTBroker, "broker", "b", "localhost:1883", "the MQTT broker host:port to connect to")
	flags.StringVarP(&MQTTClientName, "client", "c", "", "the MQTT client identifier - default is a random short UUID")
	flags.StringVarP(&UserName, "username", "u", "", "the MQTT CONNECT user name")
	flags.StringVarP(&Password, "password", "p", "", "the MQTT CONNECT password")
	flags.StringVarP(&JWTKey, "jwt-key", "", "", "sign the CONNECT password as a JWT using this HMAC key instead of --password")
	flags.IntVarP(&KeepAliveSeconds, "keep-alive", "", 30, "keep-alive interval in seconds, 0 disables PINGREQ")

	viper.BindPFlag("loglevel", flags.Lookup("loglevel"))
	viper.BindPFlag("broker", flags.Lookup("broker"))
	viper.BindPFlag("client", flags.Lookup("client"))
}

// initConfig reads in a config file and environment variables, following the precedence
// documented on RootCmd's Long description.
func initConfig() {
	if CfgFile != "" {
		viper.SetConfigFile(CfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.WithError(err).Warn("mezquit: could not resolve home directory for config lookup")
			return
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".mezquit")
	}

	viper.SetEnvPrefix("MEZQUIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("mezquit: using config file %s", viper.ConfigFileUsed())
	}

	LogLevel = viper.GetString("loglevel")
	MQTTBroker = viper.GetString("broker")
	MQTTClientName = viper.GetString("client")
}

// Execute runs the root command; main calls this and exits non-zero on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
