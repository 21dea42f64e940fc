// Package cleaner deletes bot messages after a delay on a single worker
// goroutine.
package cleaner

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const queueBuffer = 256

// Deleter removes one message from a chat.
type Deleter interface {
	DeleteMessage(chatID int64, messageID int) error
}

type job struct {
	chatID    int64
	messageID int
	due       time.Time
}

// deadlines is a min-heap of jobs ordered by due time.
type deadlines []job

func (d deadlines) Len() int           { return len(d) }
func (d deadlines) Less(i, j int) bool { return d[i].due.Before(d[j].due) }
func (d deadlines) Swap(i, j int)      { d[i], d[j] = d[j], d[i] }
func (d *deadlines) Push(x any)        { *d = append(*d, x.(job)) }
func (d *deadlines) Pop() any {
	old := *d
	n := len(old)
	j := old[n-1]
	*d = old[:n-1]
	return j
}

type Cleaner struct {
	deleter Deleter
	logger  *logrus.Entry
	now     func() time.Time

	jobs  chan job
	quit  chan struct{}
	done  chan struct{}
	drain atomic.Bool

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
}

func New(deleter Deleter, logger *logrus.Entry) *Cleaner {
	return &Cleaner{
		deleter: deleter,
		logger:  logger,
		now:     time.Now,
		jobs:    make(chan job, queueBuffer),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the worker. Calling it more than once has no effect.
func (c *Cleaner) Start() {
	c.startOnce.Do(func() {
		c.started.Store(true)
		go c.run()
	})
}

// Schedule queues a message for deletion after delay. Messages scheduled
// after Stop are dropped.
func (c *Cleaner) Schedule(chatID int64, messageID int, delay time.Duration) {
	j := job{chatID: chatID, messageID: messageID, due: c.now().Add(delay)}
	select {
	case <-c.quit:
		c.logger.WithFields(logrus.Fields{"chat_id": chatID, "message_id": messageID}).Debug("Cleaner stopped, deletion dropped")
	case c.jobs <- j:
	}
}

// Stop ends the worker and waits for it. With drain set, every pending
// message is deleted first; otherwise pending deletions are discarded.
func (c *Cleaner) Stop(drain bool) {
	c.stopOnce.Do(func() {
		c.drain.Store(drain)
		close(c.quit)
		if c.started.Load() {
			<-c.done
		}
	})
}

func (c *Cleaner) run() {
	defer close(c.done)

	var pending deadlines
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		if pending.Len() == 0 {
			timer.Stop()
		} else {
			timer.Reset(max(pending[0].due.Sub(c.now()), 0))
		}

		select {
		case j := <-c.jobs:
			heap.Push(&pending, j)
		case <-timer.C:
			c.deleteDue(&pending)
		case <-c.quit:
			c.shutdown(&pending)
			return
		}
	}
}

func (c *Cleaner) deleteDue(pending *deadlines) {
	now := c.now()
	for pending.Len() > 0 && !(*pending)[0].due.After(now) {
		c.delete(heap.Pop(pending).(job))
	}
}

func (c *Cleaner) shutdown(pending *deadlines) {
	for buffered := true; buffered; {
		select {
		case j := <-c.jobs:
			heap.Push(pending, j)
		default:
			buffered = false
		}
	}

	if !c.drain.Load() {
		if pending.Len() > 0 {
			c.logger.WithField("pending", pending.Len()).Info("Cleaner stopped, pending deletions discarded")
		}
		return
	}
	c.logger.WithField("pending", pending.Len()).Info("Cleaner draining pending deletions")
	for pending.Len() > 0 {
		c.delete(heap.Pop(pending).(job))
	}
}

// delete never fails the worker: the message may already be gone or the
// bot may have lost access to the chat.
func (c *Cleaner) delete(j job) {
	if err := c.deleter.DeleteMessage(j.chatID, j.messageID); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"chat_id":    j.chatID,
			"message_id": j.messageID,
		}).Warn("Failed to delete message")
	}
}
