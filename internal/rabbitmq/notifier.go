package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/sisalud/internal/models"
)

// Notifier публикует задания на отправку писем восстановления пароля
// в очередь, которую читает отдельный сервис sender.
type Notifier struct {
	ch        *amqp.Channel
	queueName string
}

// NewNotifier создает новый экземпляр Notifier.
func NewNotifier(ch *amqp.Channel, queueName string) *Notifier {
	return &Notifier{ch: ch, queueName: queueName}
}

// PublishResetMail кладет задание в очередь отправки писем.
func (n *Notifier) PublishResetMail(job models.ResetMailJob) error {
	const op = "rabbitmq.PublishResetMail"
	if err := PublishMessage(n.ch, n.queueName, job); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
