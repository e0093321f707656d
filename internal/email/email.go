package email

import (
	"context"
	"fmt"

	"github.com/okunev/spotbooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	fmt.Printf("send email to %s about %s for resource %s starting %s\n", event.Email, event.Type, event.ResourceID, event.Start)
	return nil
}
