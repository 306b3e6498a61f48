package jetstream_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/logger"
	mockspkg "github.com/feral-file/nft-valuation/internal/mocks"
	"github.com/feral-file/nft-valuation/internal/providers/jetstream"
)

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testNatsMocks struct {
	ctrl      *gomock.Controller
	natsJS    *mockspkg.MockNatsJetStream
	natsConn  *mockspkg.MockNatsConn
	jetStream *mockspkg.MockJetStream
}

func setupNatsMocks(t *testing.T) *testNatsMocks {
	ctrl := gomock.NewController(t)
	return &testNatsMocks{
		ctrl:      ctrl,
		natsJS:    mockspkg.NewMockNatsJetStream(ctrl),
		natsConn:  mockspkg.NewMockNatsConn(ctrl),
		jetStream: mockspkg.NewMockJetStream(ctrl),
	}
}

func testConfig() jetstream.Config {
	return jetstream.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "VALUATION_EVENTS",
		ConsumerName:   "valuation-api",
		MaxReconnects:  10,
		ReconnectWait:  time.Second,
		ConnectionName: "test",
	}
}

func (m *testNatsMocks) expectConnect(t *testing.T) {
	m.natsJS.EXPECT().
		Connect("nats://localhost:4222", gomock.Any()).
		Return(m.natsConn, m.jetStream, nil)
	m.jetStream.EXPECT().
		CreateOrUpdateStream(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, cfg natsjs.StreamConfig) error {
			assert.Equal(t, "VALUATION_EVENTS", cfg.Name)
			assert.Equal(t, []string{"collections.>"}, cfg.Subjects)
			return nil
		})
}

func TestSubject(t *testing.T) {
	tests := []struct {
		eventType domain.EventType
		expected  string
	}{
		{domain.EventTypeCollectionIngested, "collections.cool-cats.ingested"},
		{domain.EventTypeCollectionSynced, "collections.cool-cats.synced"},
		{domain.EventTypeCollectionPurged, "collections.cool-cats.purged"},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			assert.Equal(t, tt.expected, jetstream.Subject(&domain.CollectionEvent{Type: tt.eventType, Slug: "cool-cats"}))
		})
	}
}

func TestPublisher_PublishEvent(t *testing.T) {
	m := setupNatsMocks(t)
	defer m.ctrl.Finish()

	ctx := context.Background()
	m.expectConnect(t)

	pub, err := jetstream.NewPublisher(ctx, testConfig(), m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	event := &domain.CollectionEvent{
		Type:      domain.EventTypeCollectionSynced,
		Slug:      "cool-cats",
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	m.jetStream.EXPECT().
		Publish(ctx, "collections.cool-cats.synced", gomock.Any()).
		DoAndReturn(func(ctx context.Context, subject string, data []byte, opts ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			assert.Contains(t, string(data), `"type":"collection.synced"`)
			assert.Contains(t, string(data), `"collection_slug":"cool-cats"`)
			return &natsjs.PubAck{Stream: "VALUATION_EVENTS"}, nil
		})

	assert.NoError(t, pub.PublishEvent(ctx, event))

	m.natsConn.EXPECT().Close()
	pub.Close()
}

func TestPublisher_PublishError(t *testing.T) {
	m := setupNatsMocks(t)
	defer m.ctrl.Finish()

	ctx := context.Background()
	m.expectConnect(t)

	pub, err := jetstream.NewPublisher(ctx, testConfig(), m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	m.jetStream.EXPECT().
		Publish(ctx, gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	err = pub.PublishEvent(ctx, &domain.CollectionEvent{Type: domain.EventTypeCollectionIngested, Slug: "cool-cats"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to publish event")
}

func TestNewPublisher_ConnectError(t *testing.T) {
	m := setupNatsMocks(t)
	defer m.ctrl.Finish()

	m.natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(nil, nil, assert.AnError)

	pub, err := jetstream.NewPublisher(context.Background(), testConfig(), m.natsJS, adapter.NewJSON())

	assert.Nil(t, pub)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewPublisher_StreamError(t *testing.T) {
	m := setupNatsMocks(t)
	defer m.ctrl.Finish()

	m.natsJS.EXPECT().
		Connect(gomock.Any(), gomock.Any()).
		Return(m.natsConn, m.jetStream, nil)
	m.jetStream.EXPECT().
		CreateOrUpdateStream(gomock.Any(), gomock.Any()).
		Return(assert.AnError)
	m.natsConn.EXPECT().Close()

	pub, err := jetstream.NewPublisher(context.Background(), testConfig(), m.natsJS, adapter.NewJSON())

	assert.Nil(t, pub)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSubscriber_Subscribe(t *testing.T) {
	m := setupNatsMocks(t)
	defer m.ctrl.Finish()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.expectConnect(t)

	sub, err := jetstream.NewSubscriber(ctx, testConfig(), m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	consumer := mockspkg.NewMockNatsConsumer(m.ctrl)
	consumeCtx := mockspkg.NewMockConsumeContext(m.ctrl)
	good := mockspkg.NewMockJetStreamMessage(m.ctrl)
	bad := mockspkg.NewMockJetStreamMessage(m.ctrl)

	m.jetStream.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), "VALUATION_EVENTS", gomock.Any()).
		DoAndReturn(func(ctx context.Context, stream string, cfg natsjs.ConsumerConfig) (adapter.Consumer, error) {
			assert.Contains(t, cfg.Name, "valuation-api-")
			assert.Equal(t, natsjs.DeliverNewPolicy, cfg.DeliverPolicy)
			assert.Equal(t, "collections.>", cfg.FilterSubject)
			return consumer, nil
		})
	consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, opts ...natsjs.PullConsumeOpt) (adapter.ConsumeContext, error) {
			go func() {
				handler(bad)
				handler(good)
			}()
			return consumeCtx, nil
		})
	consumeCtx.EXPECT().Stop()

	bad.EXPECT().Data().Return([]byte(`not json`))
	bad.EXPECT().Subject().Return("collections.cool-cats.synced").AnyTimes()
	bad.EXPECT().Term().Return(nil)

	good.EXPECT().Data().Return([]byte(`{"type":"collection.ingested","collection_slug":"cool-cats"}`))
	good.EXPECT().Ack().Return(nil)

	var received []*domain.CollectionEvent
	err = sub.Subscribe(ctx, func(ctx context.Context, event *domain.CollectionEvent) error {
		received = append(received, event)
		cancel()
		return nil
	})

	assert.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, domain.EventTypeCollectionIngested, received[0].Type)
	assert.Equal(t, "cool-cats", received[0].Slug)
}

func TestSubscriber_HandlerErrorNaks(t *testing.T) {
	m := setupNatsMocks(t)
	defer m.ctrl.Finish()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.expectConnect(t)

	sub, err := jetstream.NewSubscriber(ctx, testConfig(), m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	consumer := mockspkg.NewMockNatsConsumer(m.ctrl)
	consumeCtx := mockspkg.NewMockConsumeContext(m.ctrl)
	msg := mockspkg.NewMockJetStreamMessage(m.ctrl)

	m.jetStream.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(consumer, nil)
	consumer.EXPECT().
		Consume(gomock.Any()).
		DoAndReturn(func(handler adapter.MessageHandler, opts ...natsjs.PullConsumeOpt) (adapter.ConsumeContext, error) {
			go handler(msg)
			return consumeCtx, nil
		})
	consumeCtx.EXPECT().Stop()

	msg.EXPECT().Data().Return([]byte(`{"type":"collection.synced","collection_slug":"cool-cats"}`))
	msg.EXPECT().Subject().Return("collections.cool-cats.synced").AnyTimes()
	msg.EXPECT().Nak().Return(nil)

	err = sub.Subscribe(ctx, func(ctx context.Context, event *domain.CollectionEvent) error {
		cancel()
		return assert.AnError
	})

	assert.NoError(t, err)
}

func TestSubscriber_CreateConsumerError(t *testing.T) {
	m := setupNatsMocks(t)
	defer m.ctrl.Finish()

	ctx := context.Background()
	m.expectConnect(t)

	sub, err := jetstream.NewSubscriber(ctx, testConfig(), m.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	m.jetStream.EXPECT().
		CreateOrUpdateConsumer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	err = sub.Subscribe(ctx, func(ctx context.Context, event *domain.CollectionEvent) error { return nil })

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to create/update consumer")
}
