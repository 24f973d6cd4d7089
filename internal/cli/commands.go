package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/items/internal/mockapi"
	"github.com/idilsaglam/items/internal/model"
	"github.com/idilsaglam/items/internal/store"
	"github.com/idilsaglam/items/internal/ui"
)

// -------------- request plumbing ----------------

// perform runs one intent through a fresh store and the effect runner and
// returns the resulting state and fact. If the runner stopped before the
// call produced a fact (ctx cancelled), a failure is recorded instead.
func (a *app) perform(ctx context.Context, in store.Intent) (store.State, store.Fact) {
	st := store.New(store.WithLogger(a.log.Named("store")))
	intents := make(chan store.Intent, 1)
	intents <- in
	close(intents)

	var fact store.Fact
	err := a.runner().Run(ctx, intents, func(act store.Action) {
		if f, ok := act.(store.Fact); ok {
			fact = f
		}
		st.Dispatch(act)
	})
	if fact == nil {
		if err == nil {
			err = errors.New("no response")
		}
		a.log.Warn("request not completed", zap.String("action", string(in.Type())), zap.Error(err))
		fact = store.Failed{Op: opOf(in), Message: err.Error()}
		st.Dispatch(fact)
	}
	return st.State(), fact
}

func opOf(in store.Intent) store.Op {
	switch in.(type) {
	case store.CreateRequest:
		return store.OpCreate
	case store.UpdateRequest:
		return store.OpUpdate
	case store.DeleteRequest:
		return store.OpDelete
	}
	return store.OpFetch
}

func requestFailed(what string, s store.State) error {
	ui.Fail(what + ": " + s.Error)
	if strings.Contains(s.Error, "connection refused") {
		ui.Hint("Hint: is the API running? Start a local one with `items serve`")
	}
	return &ExitError{Code: exitError}
}

func usage(msg string) error {
	ui.Fail(msg)
	return &ExitError{Code: exitUsage}
}

// -------------- subcommands ----------------

func (a *app) lsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := a.perform(cmd.Context(), store.FetchItems())
			ui.Panel(ui.ListingLines(s))
			if s.Error != "" {
				return &ExitError{Code: exitError}
			}
			return nil
		},
	}
}

func (a *app) addCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create an item (title can be multiple words)",
		Example: `  items add "Buy milk"
  items add Buy milk -d "2 litres"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usage("usage: items add <title...>")
			}
			title := strings.Join(args, " ")
			if strings.TrimSpace(title) == "" {
				return usage("add: empty title")
			}
			s, fact := a.perform(cmd.Context(), store.CreateItem(model.Draft{Title: title, Description: description}))
			if s.Error != "" {
				return requestFailed("create", s)
			}
			if created, ok := fact.(store.CreateSucceeded); ok {
				ui.OK("created " + created.Item.ID.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "item description")
	return cmd
}

func (a *app) editCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:     "edit <id> <title...>",
		Short:   "Replace an item's title and description",
		Example: `  items edit 7 "Buy oat milk" -d "1 litre"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return usage("usage: items edit <id> <title...>")
			}
			id := model.ID(args[0])
			title := strings.Join(args[1:], " ")
			if strings.TrimSpace(title) == "" {
				return usage("edit: empty title")
			}
			s, _ := a.perform(cmd.Context(), store.UpdateItem(id, model.Draft{Title: title, Description: description}))
			if s.Error != "" {
				return requestFailed("update", s)
			}
			ui.OK("updated " + id.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "item description (replaces the current one)")
	return cmd
}

func (a *app) rmCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usage("usage: items rm <id>")
			}
			id := model.ID(args[0])
			if !yes && !confirm(cmd, fmt.Sprintf("Delete item %s? [y/N] ", id)) {
				ui.OK("cancelled")
				return nil
			}
			s, _ := a.perform(cmd.Context(), store.DeleteItem(id))
			if s.Error != "" {
				return requestFailed("delete", s)
			}
			ui.OK("removed " + id.String())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(cmd.OutOrStdout())
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (a *app) serveCommand() *cobra.Command {
	var addr, dataFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory items API for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Serve.Addr
			}
			if !cmd.Flags().Changed("data") {
				dataFile = a.cfg.Serve.DataFile
			}
			if err := a.serve(cmd.Context(), addr, dataFile); err != nil {
				ui.Fail("serve: " + err.Error())
				return &ExitError{Code: exitError}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":5000", "listen address")
	cmd.Flags().StringVar(&dataFile, "data", "", "JSON file to load items from and save them to")
	return cmd
}

// serve runs the development API until ctx is cancelled.
func (a *app) serve(ctx context.Context, addr, dataFile string) error {
	log := a.log.Named("serve")
	srv, err := mockapi.New(mockapi.WithSnapshot(dataFile), mockapi.WithLogger(log))
	if err != nil {
		return err
	}
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", addr), zap.String("api", "/api/items"), zap.String("data", dataFile))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info("shutting down")
		return hs.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
