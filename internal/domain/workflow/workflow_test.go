package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	model "github.com/okian/crease/internal/domain/model"
	workflow "github.com/okian/crease/internal/domain/workflow"
	"github.com/okian/crease/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const goaliePhone = "+15559990000"

// fakeStore implements workflow.Store with canned state.
type fakeStore struct {
	mu      sync.Mutex
	week    model.Week
	hasWeek bool
	goalie  string
	handles map[string]model.HandleRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		week:    model.Week{ID: 1, ISOYear: 2026, ISOWeek: 8, Quota: 2, GoalieNotified: true},
		hasWeek: true,
		goalie:  goaliePhone,
		handles: make(map[string]model.HandleRecord),
	}
}

func (f *fakeStore) WeekNeedingGoalie(_ context.Context) (model.Week, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.week, f.hasWeek
}

func (f *fakeStore) GoaliePhone(_ context.Context) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.goalie, f.goalie != ""
}

func (f *fakeStore) HandleRecord(_ context.Context, phone string) (model.HandleRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.handles[phone]
	return rec, ok
}

func (f *fakeStore) StoreHandleRecord(_ context.Context, phone, h string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handles[phone] = model.HandleRecord{Phone: phone, Handle: h}
	return nil
}

// fakeMessenger records every outbound text.
type fakeMessenger struct {
	mu    sync.Mutex
	sends []string
}

func (f *fakeMessenger) Send(_ context.Context, _, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, body)
	return nil
}

func (f *fakeMessenger) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sends))
	copy(out, f.sends)
	return out
}

// fakePayer records payouts and can be told to fail.
type fakePayer struct {
	mu      sync.Mutex
	fail    bool
	payouts []payoutCall
}

type payoutCall struct {
	weekID int64
	amount float64
	handle string
}

func (f *fakePayer) SendPayout(_ context.Context, weekID int64, amount float64, h string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("payout declined")
	}
	f.payouts = append(f.payouts, payoutCall{weekID: weekID, amount: amount, handle: h})
	return nil
}

func (f *fakePayer) calls() []payoutCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]payoutCall, len(f.payouts))
	copy(out, f.payouts)
	return out
}

func TestWorkflow_Gating(t *testing.T) {
	Convey("Given a workflow with a pending week", t, func() {
		store := newFakeStore()
		messenger := &fakeMessenger{}
		payer := &fakePayer{}
		w := workflow.New(store, messenger, payer)
		ctx := context.Background()

		Convey("When the message is not from the goalie phone", func() {
			err := w.HandleInboundMessage(ctx, "+15550001111", "got a goalie")

			Convey("Then nothing happens", func() {
				So(err, ShouldBeNil)
				So(messenger.sent(), ShouldBeEmpty)
				So(payer.calls(), ShouldBeEmpty)
			})
		})

		Convey("When no week needs a goalie", func() {
			store.hasWeek = false
			err := w.HandleInboundMessage(ctx, goaliePhone, "got a goalie")

			Convey("Then nothing happens", func() {
				So(err, ShouldBeNil)
				So(messenger.sent(), ShouldBeEmpty)
				So(payer.calls(), ShouldBeEmpty)
			})
		})

		Convey("When the message matches nothing actionable", func() {
			err := w.HandleInboundMessage(ctx, goaliePhone, "see you at the rink")

			Convey("Then nothing happens", func() {
				So(err, ShouldBeNil)
				So(messenger.sent(), ShouldBeEmpty)
				So(payer.calls(), ShouldBeEmpty)
			})
		})
	})
}

func TestWorkflow_Confirmations(t *testing.T) {
	Convey("Given a workflow with a pending week", t, func() {
		store := newFakeStore()
		messenger := &fakeMessenger{}
		payer := &fakePayer{}
		w := workflow.New(store, messenger, payer)
		ctx := context.Background()

		Convey("When a high-confidence confirmation arrives with no stored handle", func() {
			err := w.HandleInboundMessage(ctx, goaliePhone, "Got a goalie! confirmed")

			Convey("Then the workflow requests a payment handle", func() {
				So(err, ShouldBeNil)
				So(messenger.sent(), ShouldHaveLength, 1)
				So(messenger.sent()[0], ShouldContainSubstring, "reply with your Venmo username")
			})

			Convey("And no payout is triggered", func() {
				So(payer.calls(), ShouldBeEmpty)
			})
		})

		Convey("When a handle is already stored for the goalie", func() {
			So(store.StoreHandleRecord(ctx, goaliePhone, "janedoe"), ShouldBeNil)
			err := w.HandleInboundMessage(ctx, goaliePhone, "Got a goalie! confirmed")

			Convey("Then exactly one payout is sent to the stored handle", func() {
				So(err, ShouldBeNil)
				So(payer.calls(), ShouldHaveLength, 1)
				So(payer.calls()[0].weekID, ShouldEqual, 1)
				So(payer.calls()[0].amount, ShouldEqual, 10.00)
				So(payer.calls()[0].handle, ShouldEqual, "janedoe")
			})

			Convey("And the goalie gets a success acknowledgment", func() {
				So(messenger.sent(), ShouldHaveLength, 1)
				So(messenger.sent()[0], ShouldContainSubstring, "Payment sent to @janedoe")
			})
		})

		Convey("When a medium-confidence confirmation arrives with no handle", func() {
			err := w.HandleInboundMessage(ctx, goaliePhone, "goalie maybe, sorry for the trouble")

			Convey("Then the workflow asks for an explicit yes or no", func() {
				So(err, ShouldBeNil)
				So(messenger.sent(), ShouldHaveLength, 1)
				So(messenger.sent()[0], ShouldContainSubstring, "reply 'YES'")
				So(payer.calls(), ShouldBeEmpty)
			})
		})

		Convey("When the payout fails", func() {
			payer.fail = true
			So(store.StoreHandleRecord(ctx, goaliePhone, "janedoe"), ShouldBeNil)
			err := w.HandleInboundMessage(ctx, goaliePhone, "Got a goalie! confirmed")

			Convey("Then the goalie gets an apology and the handle is kept", func() {
				So(err, ShouldBeNil)
				So(messenger.sent(), ShouldHaveLength, 1)
				So(messenger.sent()[0], ShouldContainSubstring, "Payment failed")
				rec, ok := store.HandleRecord(ctx, goaliePhone)
				So(ok, ShouldBeTrue)
				So(rec.Handle, ShouldEqual, "janedoe")
			})
		})
	})
}

func TestWorkflow_HandleExtraction(t *testing.T) {
	Convey("Given a workflow with a pending week", t, func() {
		store := newFakeStore()
		messenger := &fakeMessenger{}
		payer := &fakePayer{}
		w := workflow.New(store, messenger, payer, workflow.WithPayoutAmount(25))
		ctx := context.Background()

		Convey("When a handle-bearing message arrives", func() {
			err := w.HandleInboundMessage(ctx, goaliePhone, "@bobsmith here's my venmo")

			Convey("Then the handle is stored", func() {
				So(err, ShouldBeNil)
				rec, ok := store.HandleRecord(ctx, goaliePhone)
				So(ok, ShouldBeTrue)
				So(rec.Handle, ShouldEqual, "bobsmith")
			})

			Convey("And the payout goes out with the configured amount", func() {
				So(payer.calls(), ShouldHaveLength, 1)
				So(payer.calls()[0].handle, ShouldEqual, "bobsmith")
				So(payer.calls()[0].amount, ShouldEqual, 25.0)
			})

			Convey("And the goalie gets a success acknowledgment", func() {
				So(messenger.sent(), ShouldHaveLength, 1)
				So(messenger.sent()[0], ShouldContainSubstring, "Payment sent to @bobsmith")
			})
		})

		Convey("When a later handle message overwrites the first", func() {
			So(w.HandleInboundMessage(ctx, goaliePhone, "my venmo is oldhandle"), ShouldBeNil)
			So(w.HandleInboundMessage(ctx, goaliePhone, "my venmo is newhandle"), ShouldBeNil)

			Convey("Then the latest write wins", func() {
				rec, ok := store.HandleRecord(ctx, goaliePhone)
				So(ok, ShouldBeTrue)
				So(rec.Handle, ShouldEqual, "newhandle")
			})
		})
	})
}
