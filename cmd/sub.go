package cmd

import (
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mezquit/mezquit/internal/engine"
	"github.com/mezquit/mezquit/internal/mqtt"
)

var subscribeCmd = &cobra.Command{
	Use:   "sub",
	Short: "Subscribe to an MQTT topic filter and print delivered messages",
	Args: func(cmd *cobra.Command, args []string) error {
		if QoS < 0 || QoS > 2 {
			return fmt.Errorf("--qos must be between 0 and 2, got %d", QoS)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		session, err := connectSession()
		if err != nil {
			log.WithError(err).Fatal("mezquit sub: could not connect")
		}
		defer cleanDisconnect(session)

		id := engine.PacketId(nextPacketID())
		sub := &mqtt.SubscribeFrame{
			PacketID: uint16(id),
			Filters:  []mqtt.TopicFilter{{Filter: Topic, QoS: QoS}},
		}
		result, err := session.SendReceive(sub, id)
		if err != nil {
			log.WithError(err).Fatal("mezquit sub: subscribe failed")
		}
		log.Infof("mezquit sub: subscribed to %q, granted QoS %v", Topic, result.GrantedQoS)

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)

		for {
			select {
			case msg, ok := <-session.Messages():
				if !ok {
					log.Warn("mezquit sub: session ended")
					return
				}
				fmt.Printf("%s: %s\n", msg.Topic, msg.Payload)
			case <-session.Done():
				if err := session.Err(); err != nil {
					log.WithError(err).Error("mezquit sub: session stopped")
				}
				return
			case <-interrupt:
				return
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(subscribeCmd)
	flags := subscribeCmd.Flags()

	flags.StringVarP(&Topic, "topic", "t", "test", "the MQTT topic filter to subscribe to")
	flags.IntVarP(&QoS, "qos", "q", 0, "maximum quality of service to request")
}
