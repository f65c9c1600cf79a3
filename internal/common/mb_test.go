package common_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/cleanblog/internal/common"
	"github.com/sushihentaime/cleanblog/internal/common/commontest"
)

func TestMessageBroker_PublishConsume(t *testing.T) {
	mb, err := common.NewMessageBroker(commontest.RabbitMQ(t))
	require.NoError(t, err)
	t.Cleanup(func() { mb.Close() })

	require.NoError(t, common.SetupContactExchange(mb))
	// declaring twice is harmless
	require.NoError(t, mb.Declare(common.ContactBinding))
	assert.False(t, mb.IsClosed())

	msgs, err := mb.Consume(common.ContactSubmittedKey, common.ContactExchange, common.ContactMessageQueue)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = mb.Publish(ctx, []byte(`{"name":"Ada"}`), common.ContactSubmittedKey, common.ContactExchange)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.JSONEq(t, `{"name":"Ada"}`, string(msg.Body))
		assert.Equal(t, "application/json", msg.ContentType)
		assert.NotEmpty(t, msg.MessageId)
		assert.Equal(t, "contact_exchange:contact.submitted", msg.ConsumerTag)
		assert.NoError(t, msg.Ack(false))
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}

	require.NoError(t, mb.Close())
	assert.True(t, mb.IsClosed())
}
