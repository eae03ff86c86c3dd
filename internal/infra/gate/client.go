package gate

import (
	"errors"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

var (
	// ErrConnect ошибка подключения к брокеру
	ErrConnect = errors.New("gate: failed to connect to MQTT broker")
	// ErrSubscribe ошибка подписки на топик
	ErrSubscribe = errors.New("gate: failed to subscribe")
	// ErrPublish ошибка публикации
	ErrPublish = errors.New("gate: failed to publish")
)

// MessageHandler обработчик входящего сообщения
type MessageHandler func(topic string, payload []byte) error

// ClientConfig параметры подключения к брокеру
type ClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// Client обёртка над paho MQTT клиентом
type Client struct {
	client mqtt.Client
	logger Logger
}

// NewClient подключается к брокеру
func NewClient(cfg ClientConfig, logger Logger) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT: connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("%w: broker=%s: %v", ErrConnect, cfg.Broker, token.Error())
	}

	return &Client{client: client, logger: logger}, nil
}

// Subscribe подписывается на топик; ошибки обработчика логируются
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := c.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.logger.Error("MQTT: handle message topic=%s: %v", msg.Topic(), err)
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("%w: topic=%s: %v", ErrSubscribe, topic, token.Error())
	}
	return nil
}

// Publish публикует сообщение и ждёт подтверждения
func (c *Client) Publish(topic string, qos byte, payload []byte) error {
	token := c.client.Publish(topic, qos, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("%w: topic=%s: %v", ErrPublish, topic, token.Error())
	}
	return nil
}

// Disconnect закрывает соединение
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}
