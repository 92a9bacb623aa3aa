package main

import (
	"encoding/json"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"healthmon/internal/config"
	"healthmon/internal/database"
	"healthmon/internal/domain"
	"healthmon/internal/service"
)

// Topic layout: health/vitals/<device_id>
const vitalsTopic = "health/vitals/#"

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	svcs := service.New(db, nil)

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		parts := strings.Split(msg.Topic(), "/")
		deviceID := parts[len(parts)-1]

		var p domain.VitalsPayload
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("decode vitals")
			return
		}
		if _, err := svcs.Devices.IngestByDeviceID(deviceID, p); err != nil {
			log.Error().Err(err).Str("device_id", deviceID).Msg("ingest failed")
		}
	}

	if token := client.Subscribe(vitalsTopic, 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Str("topic", vitalsTopic).Msg("ingestor running; Ctrl+C to stop")
	for {
		time.Sleep(10 * time.Second)
	}
}
