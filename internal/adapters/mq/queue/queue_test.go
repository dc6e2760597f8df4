package queue_test

import (
	"context"
	"strconv"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	queue "github.com/okian/crease/internal/adapters/mq/queue"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with a small capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()

		Convey("When enqueueing within capacity", func() {
			ok := q.Enqueue(ctx, queue.Message{MessageID: "SM1", From: "+15551234567", Body: "hi"})

			Convey("Then the message is accepted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the queue is full", func() {
			for i := 0; i < 2; i++ {
				So(q.Enqueue(ctx, queue.Message{MessageID: "SM" + strconv.Itoa(i)}), ShouldBeTrue)
			}

			Convey("Then further enqueues report backpressure", func() {
				So(q.Enqueue(ctx, queue.Message{MessageID: "overflow"}), ShouldBeFalse)
			})
		})

		Convey("When dequeuing", func() {
			So(q.Enqueue(ctx, queue.Message{MessageID: "SM1", Body: "first"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Message{MessageID: "SM2", Body: "second"}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			out := q.Dequeue(ctx)

			Convey("Then messages arrive in order and the channel closes", func() {
				first := <-out
				So(first.Body, ShouldEqual, "first")
				second := <-out
				So(second.Body, ShouldEqual, "second")
				_, open := <-out
				So(open, ShouldBeFalse)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are rejected", func() {
				So(q.Enqueue(ctx, queue.Message{MessageID: "late"}), ShouldBeFalse)
				So(q.IsClosed(), ShouldBeTrue)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
