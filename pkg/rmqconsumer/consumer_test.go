package rmqconsumer

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-uploader/config"
)

func Test_delivery_Table(t *testing.T) {
	type tc struct {
		name       string
		routingKey string
		body       string
		wantOut    string
		wantErr    bool
	}
	cases := []tc{
		{
			name:       "folder.created -> FolderCreated",
			routingKey: "folder.created",
			body:       `{"owner_id":"o1"}`,
			wantOut:    "Action=FolderCreated Owner=o1 EventBody={\"owner_id\":\"o1\"}\n",
		},
		{
			name:       "file.uploaded -> FileUploaded",
			routingKey: "file.uploaded",
			body:       `{"owner_id":"o2","activity":{"name":"a.png"}}`,
			wantOut:    "Action=FileUploaded Owner=o2 EventBody={\"owner_id\":\"o2\",\"activity\":{\"name\":\"a.png\"}}\n",
		},
		{
			name:       "file.deleted -> FileDeleted",
			routingKey: "file.deleted",
			body:       `{"owner_id":"o3"}`,
			wantOut:    "Action=FileDeleted Owner=o3 EventBody={\"owner_id\":\"o3\"}\n",
		},
		{
			name:       "unknown -> empty",
			routingKey: "user.created",
			body:       `{}`,
			wantOut:    "Action= Owner= EventBody={}\n",
		},
		{
			name:       "garbage body",
			routingKey: "file.deleted",
			body:       `not json`,
			wantErr:    true,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := New(config.MQ{}, zap.NewNop(), &out)

			err := c.delivery(amqp091.Delivery{RoutingKey: tt.routingKey, Body: []byte(tt.body)})
			if tt.wantErr {
				require.Error(t, err)
				require.Empty(t, out.String())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantOut, out.String())
		})
	}
}

func TestDeliveryWorker_StopsOnCancelAndClosedChannel(t *testing.T) {
	var out bytes.Buffer
	ch := make(chan amqp091.Delivery, 1)
	c := New(config.MQ{}, zap.NewNop(), &out)
	c.chDelivery = ch

	ch <- amqp091.Delivery{RoutingKey: "folder.deleted", Body: []byte(`{"owner_id":"o"}`)}
	close(ch)

	done := make(chan struct{})
	go func() {
		c.DeliveryWorker(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	require.Contains(t, out.String(), "Action=FolderDeleted")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.chDelivery = make(chan amqp091.Delivery)
	c.DeliveryWorker(ctx)
}

func TestConnect_InvalidDSN(t *testing.T) {
	c := New(config.MQ{}, zap.NewNop(), nil)

	err := c.Connect("amqp://bad:://dsn")
	require.Error(t, err)
	require.Nil(t, c.chConsume)
	require.Nil(t, c.conn)
	c.Close()
}
