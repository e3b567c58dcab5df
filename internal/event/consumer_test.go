package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"profile-service/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

type recordingAccountWriter struct {
	accounts []*models.Account
}

func (r *recordingAccountWriter) Upsert(ctx context.Context, account *models.Account) error {
	r.accounts = append(r.accounts, account)
	return nil
}

func waitForExit(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consume loop did not exit")
	}
}

func TestConsumeExitsWhenDeliveryChannelCloses(t *testing.T) {
	c := &EventConsumer{shutdown: make(chan struct{})}

	msgs := make(chan amqp091.Delivery)
	close(msgs)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.consume(msgs)
	}()

	waitForExit(t, done)
}

func TestConsumeExitsOnShutdown(t *testing.T) {
	c := &EventConsumer{shutdown: make(chan struct{})}

	msgs := make(chan amqp091.Delivery)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.consume(msgs)
	}()

	close(c.shutdown)
	waitForExit(t, done)
}

func TestHandleUserRegisteredUpsertsAccount(t *testing.T) {
	writer := &recordingAccountWriter{}
	c := &EventConsumer{accounts: writer, shutdown: make(chan struct{})}

	body, err := json.Marshal(models.UserRegisterEvent{
		UserID:   "user-1",
		Username: "Ada",
		Email:    "ada@example.com",
	})
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	if err := c.handleUserRegistered(body); err != nil {
		t.Fatalf("handleUserRegistered returned error: %v", err)
	}

	if len(writer.accounts) != 1 {
		t.Fatalf("Expected 1 account upsert, got %d", len(writer.accounts))
	}
	if writer.accounts[0].ID != "user-1" || writer.accounts[0].Name != "Ada" {
		t.Errorf("Unexpected account record: %+v", writer.accounts[0])
	}
}

func TestHandleUserRegisteredIgnoresMissingID(t *testing.T) {
	writer := &recordingAccountWriter{}
	c := &EventConsumer{accounts: writer, shutdown: make(chan struct{})}

	body, _ := json.Marshal(models.UserRegisterEvent{Username: "nobody"})
	if err := c.handleUserRegistered(body); err != nil {
		t.Fatalf("handleUserRegistered returned error: %v", err)
	}

	if len(writer.accounts) != 0 {
		t.Errorf("Expected no account upsert without a user id, got %d", len(writer.accounts))
	}
}
