// Package lib provides a Go SDK to drive DICE operations programmatically.
//
// It allows applications to start and follow backup and model training runs
// without shelling out to the dice CLI binary. Every run is recorded in the
// run history, the same one the CLI uses.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	run, err := client.StartBackup(ctx, "before-upgrade")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	run, err = client.WaitRun(ctx, run.ID)
//	fmt.Println(run.State, run.Progress)
//
// # Runs
//
// A client holds at most one running run per kind. Starting a second backup
// while one is running fails with [ErrAlreadyRunning]. Runs progress on their
// own in the background and end as [RunStateCompleted], or [RunStateFailed]
// when cancelled with [Client.CancelRun] or when the client is closed.
//
// # Events
//
// Set [Config].OnEvent to follow the progress of every run:
//
//	client, _ := lib.New(ctx, lib.Config{
//	    OnEvent: func(e lib.RunEvent) {
//	        fmt.Printf("%s %s %.0f%%\n", e.Run.Kind, e.Type, e.Run.Progress)
//	    },
//	})
//
// The handler is called synchronously, in order, and must not call the client
// methods that start or cancel runs.
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: Run does not exist.
//   - [ErrNotValid]: Invalid input.
//   - [ErrAlreadyRunning]: A run of the same kind is already running.
//   - [ErrNotRunning]: The run can't be cancelled because it is not running.
//
// # Testing
//
// Use InMemory to avoid touching the disk:
//
//	client, _ := lib.New(ctx, lib.Config{InMemory: true, TickInterval: time.Millisecond})
//	defer client.Close()
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines.
package lib
