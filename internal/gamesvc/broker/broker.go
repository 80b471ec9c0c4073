package broker

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/kurogitsune/gamesofni/internal/comm"
	natsconn "github.com/kurogitsune/gamesofni/internal/nats"
)

// Broker moves settlement notices over NATS: the sweeper publishes, the
// game service subscribes and fans out to its websocket feed clients.
type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

func (b *Broker) PublishSettlement(notice comm.SettlementNotice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		log.Errorf("unable to marshal settlement notice for team %s: %s", notice.Team, err)
		return err
	}

	return b.Publish(natsconn.SettlementTopic, payload)
}

// SubscribeSettlements delivers every settlement notice to handle.
func (b *Broker) SubscribeSettlements(handle func(comm.SettlementNotice)) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(natsconn.SettlementTopic, func(msg *nats.Msg) {
		var notice comm.SettlementNotice
		if err := json.Unmarshal(msg.Data, &notice); err != nil {
			log.Errorf("Error nats message %s", err)
			return
		}
		handle(notice)
	})
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
