package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/totegamma/apub-playground/internal/infra/providers"
	"github.com/totegamma/apub-playground/schemas"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [id]",
	Short: "Resolve an object identifier and print its wire form",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [user@domain]",
	Short: "Look up an actor by handle",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	resolveCmd.Flags().String("type", schemas.NoteType, "Object type to resolve (Note or Person)")
}

// newCLIApplication wires an in-memory node that only talks to remote peers.
func newCLIApplication(cmd *cobra.Command) (*providers.Application, error) {
	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger("warn")
	if err != nil {
		return nil, err
	}

	cl, err := providers.NewClient(conf, logger)
	if err != nil {
		return nil, err
	}
	return providers.NewApplication(conf, providers.NewStores(nil), cl, nil, prometheus.NewRegistry(), logger), nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	app, err := newCLIApplication(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	kind, _ := cmd.Flags().GetString("type")
	switch kind {
	case schemas.NoteType:
		note, err := app.Posts.Outbound(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(note)
	case schemas.PersonType:
		person, err := app.Actors.Outbound(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(person)
	default:
		return fmt.Errorf("unsupported type %q", kind)
	}
}

func runLookup(cmd *cobra.Command, args []string) error {
	app, err := newCLIApplication(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()

	actor, err := app.Actors.Lookup(ctx, args[0])
	if err != nil {
		return err
	}
	person, err := app.Actors.Outbound(ctx, actor.ID.String())
	if err != nil {
		return err
	}
	return printJSON(person)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
