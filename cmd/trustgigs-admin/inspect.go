package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/trustgigs/ledger/internal/bootstrap"
	"github.com/trustgigs/ledger/internal/data"
	"github.com/trustgigs/ledger/internal/domain/model"
	"github.com/trustgigs/ledger/internal/service"
)

const inspectTimeout = 2 * time.Minute

func connectStore(cmdCtx *commandContext) (*data.PGEventStore, func(), error) {
	db, err := bootstrap.ConnectDB(cmdCtx.Config.Postgres, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}
	return data.NewPGEventStore(db), cleanup, nil
}

func runStats(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	var actor string
	fs.StringVar(&actor, "actor", "", "also print stats for this actor")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, inspectTimeout)
	defer cancel()

	store, cleanup, err := connectStore(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	svc, err := service.NewLedgerService(ctx, service.LedgerServiceOptions{
		Store:  store,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	platform := svc.GetPlatformStats()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "total jobs\t%d\n", platform.TotalJobs)
	fmt.Fprintf(tw, "total applications\t%d\n", platform.TotalApplications)
	fmt.Fprintf(tw, "rewards distributed\t%d\n", platform.TotalRewardsDistributed)
	fmt.Fprintf(tw, "active jobs\t%d\n", platform.ActiveJobsCount)
	if actor != "" {
		user := svc.GetUserStats(actor)
		fmt.Fprintf(tw, "\nactor\t%s\n", actor)
		fmt.Fprintf(tw, "jobs created\t%d\n", user.JobsCreated)
		fmt.Fprintf(tw, "applications submitted\t%d\n", user.ApplicationsSubmitted)
		fmt.Fprintf(tw, "jobs won\t%d\n", user.JobsWon)
		fmt.Fprintf(tw, "total earned\t%d\n", user.TotalEarned)
	}
	return tw.Flush()
}

type eventsOptions struct {
	From    uint64
	Limit   int
	RawJSON bool
}

func parseEventsFlags(args []string) (eventsOptions, error) {
	opts := eventsOptions{Limit: 100}
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	fs.Uint64Var(&opts.From, "from", 0, "replay from this sequence (exclusive)")
	fs.IntVar(&opts.Limit, "limit", opts.Limit, "maximum events to print (0 for all)")
	fs.BoolVar(&opts.RawJSON, "json", false, "print raw event JSON, one per line")
	if err := fs.Parse(args); err != nil {
		return eventsOptions{}, err
	}
	return opts, nil
}

var errLimitReached = errors.New("limit reached")

func runEvents(cmdCtx *commandContext, args []string) error {
	opts, err := parseEventsFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, inspectTimeout)
	defer cancel()

	store, cleanup, err := connectStore(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if !opts.RawJSON {
		fmt.Fprintf(tw, "SEQ\tKIND\tTS\tPAYLOAD\n")
	}

	printed := 0
	replayErr := store.Replay(ctx, opts.From, func(ev model.Event) error {
		if opts.Limit > 0 && printed >= opts.Limit {
			return errLimitReached
		}
		printed++
		if opts.RawJSON {
			line, marshalErr := json.Marshal(ev)
			if marshalErr != nil {
				return marshalErr
			}
			fmt.Fprintf(tw, "%s\n", line)
			return nil
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", ev.Sequence, ev.Kind, ev.Timestamp, ev.Payload)
		return nil
	})
	if replayErr != nil && !errors.Is(replayErr, errLimitReached) {
		return replayErr
	}
	return tw.Flush()
}

// runVerifyLog walks the entire event log checking sequence contiguity and
// payload decodability, then rebuilds ledger state from it. Any failure means
// the log cannot be trusted as the source of truth.
func runVerifyLog(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("verify-log", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, inspectTimeout)
	defer cancel()

	store, cleanup, err := connectStore(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	count, err := checkLogIntegrity(ctx, store)
	if err != nil {
		return err
	}

	// A full replay through the service is the strongest check available:
	// it exercises the same fold the server runs at startup.
	if _, err = service.NewLedgerService(ctx, service.LedgerServiceOptions{
		Store:  store,
		Logger: cmdCtx.Logger,
	}); err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	return writef(os.Stdout, "ok: %d events, contiguous and replayable\n", count)
}

func checkLogIntegrity(ctx context.Context, store data.EventStore) (uint64, error) {
	var prev uint64
	err := store.Replay(ctx, 0, func(ev model.Event) error {
		if ev.Sequence != prev+1 {
			return fmt.Errorf("sequence gap: %d follows %d", ev.Sequence, prev)
		}
		if !ev.Kind.Valid() {
			return fmt.Errorf("event %d: unknown kind %q", ev.Sequence, ev.Kind)
		}
		if _, decodeErr := model.DecodePayload(ev); decodeErr != nil {
			return fmt.Errorf("event %d: %w", ev.Sequence, decodeErr)
		}
		prev = ev.Sequence
		return nil
	})
	return prev, err
}
