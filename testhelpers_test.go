//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/urbanly-services/provider-dashboard/internal/application"
	"github.com/urbanly-services/provider-dashboard/internal/common/kafka"
	bookingDomain "github.com/urbanly-services/provider-dashboard/internal/domain/booking"
	dashboardEvents "github.com/urbanly-services/provider-dashboard/internal/events"
	"github.com/urbanly-services/provider-dashboard/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// dashboardStack holds wired-up dashboard service components.
type dashboardStack struct {
	Bookings        *application.BookingService
	Assignments     *application.AssignmentService
	Consumer        *dashboardEvents.Consumer
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_dashboard",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_dashboard sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.BookingModel{},
		&repository.BusinessModel{},
		&repository.ProviderModel{},
		&repository.ProviderServiceModel{},
		&repository.PayoutModel{},
	))

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers,
		dashboardEvents.TopicBookingEvents,
		dashboardEvents.TopicPaymentEvents,
		dashboardEvents.TopicPayoutEvents,
	)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupDashboardStack wires up the application services and event consumer.
func setupDashboardStack(t *testing.T, db *gorm.DB, brokers []string) *dashboardStack {
	t.Helper()
	log := zap.NewNop()

	producer := kafka.NewProducer(brokers, log)
	bookingRepo := repository.NewGormBookingRepository(db)
	providerRepo := repository.NewGormProviderRepository(db)

	bookings := application.NewBookingService(bookingRepo, producer, log)
	assignments := application.NewAssignmentService(bookingRepo, providerRepo, producer, log)

	consumer := dashboardEvents.NewConsumer(brokers, "test."+uuid.NewString(), dashboardEvents.Handlers{
		TipPaid: func(ctx context.Context, evt dashboardEvents.TipPaidEvent) error {
			return bookings.MarkTipPaid(ctx, evt.BookingID, evt.TipAmountCents)
		},
		BookingCreated: func(ctx context.Context, evt dashboardEvents.BookingCreatedEvent) error {
			return assignments.AutoAssignNewBooking(ctx, evt.BookingID)
		},
	}, log)

	return &dashboardStack{
		Bookings:        bookings,
		Assignments:     assignments,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// createTopics pre-creates Kafka topics so consumers can join immediately.
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprint(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	configs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		configs[i] = kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}
	}
	require.NoError(t, controllerConn.CreateTopics(configs...))
}

// seedBusiness inserts a business row.
func seedBusiness(t *testing.T, db *gorm.DB, businessType string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&repository.BusinessModel{
		ID:           id,
		BusinessType: businessType,
		Name:         "Test Business",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}).Error)
	return id
}

// seedProvider inserts an active staff row for a business.
func seedProvider(t *testing.T, db *gorm.DB, businessID uuid.UUID, role string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&repository.ProviderModel{
		ID:         id,
		BusinessID: businessID,
		Name:       "Test Provider",
		Role:       role,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}).Error)
	return id
}

// seedBookingRow inserts a booking row in the given status.
func seedBookingRow(t *testing.T, db *gorm.DB, businessID uuid.UUID, providerID *uuid.UUID, status string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&repository.BookingModel{
		ID:               id,
		BusinessID:       businessID,
		ProviderID:       providerID,
		CustomerID:       uuid.New(),
		ServiceID:        uuid.New(),
		BookingDate:      time.Now().UTC().Truncate(24 * time.Hour),
		StartTime:        "10:00",
		EndTime:          "11:00",
		Status:           status,
		TotalAmountCents: 10000,
		TipStatus:        string(bookingDomain.TipNotRequested),
		Version:          1,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}).Error)
	return id
}

// publishTestEvent wraps data in a CloudEvent and publishes it.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err)
	payload, err := json.Marshal(ce)
	require.NoError(t, err)

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafkago.RequireOne,
	}
	defer writer.Close()

	require.NoError(t, writer.WriteMessages(context.Background(), kafkago.Message{
		Key:   []byte(ce.ID),
		Value: payload,
	}))
}

// consumeOneEvent reads from a topic until it sees a CloudEvent of the given type.
func consumeOneEvent(t *testing.T, brokers []string, topic, eventType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  "test-observer." + uuid.NewString(),
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		msg, err := reader.ReadMessage(ctx)
		require.NoError(t, err, "did not observe %s on %s", eventType, topic)

		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == eventType {
			return ce
		}
	}
}

// waitForBookingRow polls until the predicate holds for the booking row.
func waitForBookingRow(t *testing.T, db *gorm.DB, bookingID uuid.UUID, timeout time.Duration, predicate func(repository.BookingModel) bool) repository.BookingModel {
	t.Helper()

	var model repository.BookingModel
	require.Eventually(t, func() bool {
		if err := db.Where("id = ?", bookingID).First(&model).Error; err != nil {
			return false
		}
		return predicate(model)
	}, timeout, 500*time.Millisecond, "booking %s never reached expected state", bookingID)
	return model
}
