package cmd

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Connect, wait for the keep-alive PINGREQ/PINGRESP exchange, then disconnect",
	Run: func(cmd *cobra.Command, args []string) {
		session, err := connectSession()
		if err != nil {
			log.WithError(err).Fatal("mezquit ping: could not connect")
		}
		defer cleanDisconnect(session)

		log.Infof("mezquit ping: connected, waiting %d seconds for a keep-alive cycle", KeepAliveSeconds+2)
		select {
		case <-time.After(time.Duration(KeepAliveSeconds+2) * time.Second):
			log.Info("mezquit ping: done")
		case <-session.Done():
			if err := session.Err(); err != nil {
				log.WithError(err).Error("mezquit ping: session stopped")
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(pingCmd)
}
