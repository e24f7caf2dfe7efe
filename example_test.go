// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep_test

import (
	"context"
	"fmt"
	"time"

	asyncsleep "github.com/joeycumines/go-asyncsleep"
)

// ExampleSleep demonstrates the raw poll protocol a cooperative scheduler
// would drive: poll with a wake callback, park until woken, poll again.
func ExampleSleep() {
	s := asyncsleep.Sleep(20 * time.Millisecond)

	woken := make(chan struct{})
	for !s.Poll(func() { close(woken) }) {
		// A real scheduler would park the task here and resume it when the
		// callback fires; this stand-in parks the goroutine instead.
		<-woken
	}

	fmt.Println("slept")
	// Output:
	// slept
}

// ExampleWait shows the blocking adapter for plain goroutine callers.
func ExampleWait() {
	if err := asyncsleep.Wait(context.Background(), 10*time.Millisecond); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("done")
	// Output:
	// done
}

// ExampleAfter shows the channel adapter, a time.After analogue routed
// through the shared coordinator.
func ExampleAfter() {
	<-asyncsleep.After(10 * time.Millisecond)
	fmt.Println("fired")
	// Output:
	// fired
}
