package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Number of serial workers updates are spread across
const dispatchWorkers = 16

// dispatcher runs update handlers on a fixed set of workers. Updates with the
// same key always land on the same worker, so they are handled in arrival order.
type dispatcher struct {
	queues []chan tgbotapi.Update
	wg     sync.WaitGroup
}

func newDispatcher(workers int, handle func(tgbotapi.Update)) *dispatcher {
	if workers < 1 {
		workers = 1
	}

	d := &dispatcher{queues: make([]chan tgbotapi.Update, workers)}
	for i := range d.queues {
		queue := make(chan tgbotapi.Update, 64)
		d.queues[i] = queue

		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for upd := range queue {
				handle(upd)
			}
		}()
	}
	return d
}

// Dispatch queues the update on its worker, blocking while that worker is full
func (d *dispatcher) Dispatch(update tgbotapi.Update) {
	idx := uint64(updateKey(update)) % uint64(len(d.queues))
	d.queues[idx] <- update
}

// Close stops accepting updates and waits for queued ones to be handled
func (d *dispatcher) Close() {
	for _, queue := range d.queues {
		close(queue)
	}
	d.wg.Wait()
}

// updateKey orders updates per chat. Callbacks are keyed by the sender, which
// equals the private chat id the operator types into.
func updateKey(update tgbotapi.Update) int64 {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	case update.MyChatMember != nil:
		return update.MyChatMember.Chat.ID
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	default:
		return 0
	}
}
