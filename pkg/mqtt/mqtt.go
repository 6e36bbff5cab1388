// Package mqtt provides MQTT communication capabilities for the bot.
// Moderation events are published for dashboards and other services, and
// request/response handlers let them query the bot.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// TopicPrefix is the root of every topic used by the bot
const TopicPrefix = "nah"

// ErrNotConnected is returned when publishing without a broker connection
var ErrNotConnected = errors.New("mqtt client not connected")

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client   mqtt.Client
	clientID string
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a new MQTT communicator and starts connecting in the background
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{clientID: clientID}

	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}

	return mc
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc != nil && mc.client != nil && mc.client.IsConnected()
}

// Publish sends a JSON payload to a topic, waiting for delivery until ctx is done
func (mc *MqttCommunicator) Publish(ctx context.Context, topic string, payload interface{}) error {
	if !mc.IsConnected() {
		return ErrNotConnected
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 0, false, jsonData)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestHandler is a function type for handling MQTT requests
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// requestTopic returns the topic a handler for name listens on
func requestTopic(name string) string {
	return fmt.Sprintf("%s/request/%s", TopicPrefix, name)
}

// responseTopic returns the topic the answer to a request is sent to
func responseTopic(name, correlationID string) string {
	return fmt.Sprintf("%s/response/%s/%s", TopicPrefix, name, correlationID)
}

// handleRequest decodes a request, runs callback and encodes the response
func handleRequest(raw []byte, name string, callback RequestHandler) (string, MqttResponse, error) {
	var request MqttRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return "", MqttResponse{}, fmt.Errorf("invalid request on %s: %w", name, err)
	}

	payload := make(map[string]interface{})
	if pm, ok := request.Payload.(map[string]interface{}); ok {
		payload = pm
	}
	payload["_topic"] = name

	response := MqttResponse{CorrelationID: request.CorrelationID}
	data, err := callback(payload)
	if err != nil {
		response.Error = err.Error()
	} else {
		response.Data = data
	}
	return responseTopic(name, request.CorrelationID), response, nil
}

// On registers a handler for a request topic
func (mc *MqttCommunicator) On(name string, callback RequestHandler) {
	topic := requestTopic(name)

	token := mc.client.Subscribe(topic, 0, func(c mqtt.Client, msg mqtt.Message) {
		actual := strings.TrimPrefix(msg.Topic(), requestTopic(""))
		replyTopic, response, err := handleRequest(msg.Payload(), actual, callback)
		if err != nil {
			logger.Error(err.Error(), "MQTT")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mc.Publish(ctx, replyTopic, response); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo responder en %s: %v", replyTopic, err), "MQTT")
		}
	})

	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error subscribing to topic %s: %v", topic, token.Error()), "MQTT")
	}
}
