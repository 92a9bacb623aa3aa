package main

import (
	"encoding/json"
	"flag"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"healthmon/internal/config"
	"healthmon/internal/simulator"
)

func main() {
	deviceID := flag.String("device", "smartwatch-demo", "device id to publish as")
	count := flag.Int("count", 100, "number of readings to publish")
	interval := flag.Duration("interval", 500*time.Millisecond, "publish interval")
	age := flag.Int("age", 30, "profile age")
	fitness := flag.String("fitness", "moderate", "profile fitness level (low|moderate|high)")
	flag.Parse()

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	gen := simulator.New(simulator.Profile{
		Age:          *age,
		FitnessLevel: *fitness,
	}, time.Now().UnixNano())

	topic := "health/vitals/" + *deviceID
	for i := 0; i < *count; i++ {
		reading := gen.Reading(time.Now().UTC())
		payload, _ := json.Marshal(reading)
		token := client.Publish(topic, 0, false, payload)
		token.Wait()
		time.Sleep(*interval)
	}
	log.Info().Int("count", *count).Str("topic", topic).Msg("simulation done")
}
