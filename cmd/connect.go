package cmd

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mezquit/mezquit/internal/engine"
	"github.com/mezquit/mezquit/internal/mqtt"
)

// clientID returns MQTTClientName, generating and logging a random one if the flag was left
// at its default empty value.
func clientID() string {
	if MQTTClientName == "" {
		MQTTClientName = mqtt.RandomClientID()
		log.Infof("mezquit: using generated client id %s", MQTTClientName)
	}
	return MQTTClientName
}

// connectSession dials MQTTBroker and establishes a Session using the shared persistent
// flags (broker, client, keep-alive, username/password or jwt-key).
func connectSession() (*engine.Session, error) {
	id := clientID()

	password := []byte(Password)
	if JWTKey != "" {
		signed, err := mqtt.SignPasswordJWT(id, []byte(JWTKey), time.Hour)
		if err != nil {
			return nil, err
		}
		password = []byte(signed)
	}

	transport, err := mqtt.DialTCP(MQTTBroker)
	if err != nil {
		return nil, err
	}

	config := engine.SessionConfig{
		ClientID:         id,
		KeepAliveSeconds: KeepAliveSeconds,
		CleanSession:     true,
		UserName:         UserName,
	}
	if len(password) > 0 {
		config.Password = password
	}

	session, err := engine.Connect(config, transport)
	if err != nil {
		transport.Close()
		return nil, err
	}
	return session, nil
}

// cleanDisconnect sends DISCONNECT (suppressing the broker's Will) before tearing the session
// down, the well-behaved counterpart to an unclean Cancel() that a broker would treat as the
// trigger for publishing a configured Will.
func cleanDisconnect(session *engine.Session) {
	if err := session.Send(mqtt.DisconnectFrame{}); err != nil {
		log.WithError(err).Debug("mezquit: DISCONNECT send failed, session likely already down")
	}
	session.Cancel()
}
