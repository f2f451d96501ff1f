package cmd

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mezquit/mezquit/internal/engine"
	"github.com/mezquit/mezquit/internal/mqtt"
)

var publishCmd = &cobra.Command{
	Use:   "pub",
	Short: "Publish one or more MQTT messages",
	Args: func(cmd *cobra.Command, args []string) error {
		if QoS < 0 || QoS > 2 {
			return fmt.Errorf("--qos must be between 0 and 2, got %d", QoS)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		session, err := connectSession()
		if err != nil {
			log.WithError(err).Fatal("mezquit pub: could not connect")
		}
		defer cleanDisconnect(session)

		if FileName == "" {
			publishOne(session, Topic, []byte(Message))
		} else {
			publishFromFile(session, FileName)
		}
	},
}

func publishOne(session *engine.Session, topic string, payload []byte) {
	pub := &mqtt.PublishFrame{Topic: topic, Payload: payload, QoS: QoS, Retain: Retain}
	if QoS == 0 {
		if err := session.Send(pub); err != nil {
			log.WithError(err).Error("mezquit pub: send failed")
		}
		return
	}

	id := engine.PacketId(nextPacketID())
	pub.PacketID = uint16(id)
	if _, err := session.SendReceive(pub, id); err != nil {
		log.WithError(err).Error("mezquit pub: publish handshake failed")
	}
}

func publishFromFile(session *engine.Session, fileName string) {
	f, err := os.Open(fileName)
	if err != nil {
		log.WithError(err).Fatalf("mezquit pub: cannot open %s", fileName)
	}
	defer f.Close()

	rows, err := csv.NewReader(bufio.NewReader(f)).ReadAll()
	if err != nil {
		log.WithError(err).Fatalf("mezquit pub: cannot parse %s", fileName)
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		publishOne(session, row[0], []byte(row[1]))
	}
}

// nextPacketID hands out sequential MQTT packet identifiers for the lifetime of the process;
// it is only ever called from the single goroutine driving a pub/sub subcommand.
var packetIDCounter uint16

func nextPacketID() uint16 {
	packetIDCounter++
	if packetIDCounter == 0 {
		packetIDCounter = 1
	}
	return packetIDCounter
}

// Topic is the MQTT topic to publish to.
var Topic string

// Message is the MQTT message text to publish.
var Message string

// QoS is the MQTT quality of service to publish (or subscribe) at.
var QoS int

// FileName is the name of a CSV file of <topic,message> rows to publish instead of --topic/--message.
var FileName string

// Retain indicates whether a published message should be retained by the broker.
var Retain bool

func init() {
	RootCmd.AddCommand(publishCmd)
	flags := publishCmd.Flags()

	flags.StringVarP(&Topic, "topic", "t", "test", "the MQTT topic to publish to")
	flags.StringVarP(&Message, "message", "m", "", "the message payload to publish")
	flags.StringVarP(&FileName, "file", "f", "", "CSV file of <topic,message> rows to publish instead of --topic/--message")
	flags.IntVarP(&QoS, "qos", "q", 0, "quality of service 0-2")
	flags.BoolVarP(&Retain, "retain", "r", false, "publish with the RETAIN flag set")
}
