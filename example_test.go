package stato_test

import (
	"context"
	"fmt"

	"github.com/petrijr/stato"
)

// ExampleConfigure builds a counter store, applies a few reducers and
// reads the result through an action.
func ExampleConfigure() {
	store, err := stato.Configure(0).
		Backend(stato.KindInline).
		Build()
	if err != nil {
		panic(err)
	}

	store.Update(func(n int) int { return n + 2 })
	store.Update(func(n int) int { return n * 10 })
	store.Do(func(n int) { fmt.Println("counter:", n) })

	_ = store.Quit().Wait(context.Background())
	// Output:
	// counter: 20
}

// ExampleBuilder_Listen shows listeners observing the initial state and
// every changed state, in order.
func ExampleBuilder_Listen() {
	done := make(chan struct{})
	store, err := stato.Configure("start").
		Backend(stato.KindInline).
		Listen(func(s string) {
			fmt.Println("saw:", s)
			if s == "finish" {
				close(done)
			}
		}).
		Build()
	if err != nil {
		panic(err)
	}

	store.Update(func(string) string { return "middle" })
	store.Update(func(s string) string { return s }) // no-op, not published
	store.Update(func(string) string { return "finish" })
	<-done

	_ = store.QuitSafely().Wait(context.Background())
	// Output:
	// saw: start
	// saw: middle
	// saw: finish
}

// ExampleStore_QuitSafely demonstrates graceful shutdown draining all
// pending work before the handle resolves.
func ExampleStore_QuitSafely() {
	store, err := stato.New(0)
	if err != nil {
		panic(err)
	}

	for i := 0; i < 100; i++ {
		store.Update(func(n int) int { return n + 1 })
	}
	if err := store.QuitSafely().Wait(context.Background()); err != nil {
		panic(err)
	}
	fmt.Println("final:", store.State())
	// Output:
	// final: 100
}

// ExampleCompose chains reducers into one submission, so intermediate
// values are never published.
func ExampleCompose() {
	store, err := stato.Configure(1).
		Backend(stato.KindInline).
		Build()
	if err != nil {
		panic(err)
	}

	store.Update(stato.Compose(
		func(n int) int { return n + 9 },
		func(n int) int { return n * n },
	))
	fmt.Println(store.State())

	_ = store.Quit().Wait(context.Background())
	// Output:
	// 100
}
